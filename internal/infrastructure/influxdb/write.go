package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/energy-metrics-core/internal/metric"
)

// UpsertRecord mirrors one applied metric record to InfluxDB. The point is
// timestamped with the record's own timestamp, not the write time, so
// backfilled history lands in the right place.
//
// Implements metric.Sink. The write is non-blocking; data is batched and
// sent asynchronously.
func (c *Client) UpsertRecord(rec metric.Record) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{}
	if rec.MeterValue != nil {
		fields["meter_value"] = *rec.MeterValue
	}
	if rec.AverageValue != nil {
		fields["average_value"] = *rec.AverageValue
	}
	if rec.Temperature != nil {
		fields["temperature"] = *rec.Temperature
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"energy_metrics",
		map[string]string{
			"source": c.cfg.Org,
		},
		fields,
		rec.Timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that do not fit the record mirror, such as
// service lifecycle markers.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
