// Package influxdb mirrors ingested metric records to an InfluxDB v2 bucket.
//
// It wraps the official influxdb-client-go v2 library. The Client implements
// metric.Sink: every record applied by an ingestion is written as a point in
// the energy_metrics measurement, timestamped with the record's timestamp so
// backfilled history is placed correctly.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    // Mirror is optional; log and continue without it.
//	}
//	defer client.Close()
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched according to config.yaml settings (batch_size, flush_interval);
// async write errors are delivered via SetOnError.
package influxdb
