package bolt

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront/storefront"
	bolt "go.etcd.io/bbolt"
)

var _ prometheus.Collector = (*KVStore)(nil)

var (
	kvWritesDesc = prometheus.NewDesc(
		"boltdb_writes_total",
		"Total number of boltdb writes",
		nil, nil)

	kvReadsDesc = prometheus.NewDesc(
		"boltdb_reads_total",
		"Total number of boltdb reads",
		nil, nil)
)

var resourceBuckets = []string{
	storefront.UsersTable,
	storefront.ProductsTable,
	storefront.OrdersTable,
}

func resourceDesc(table string) *prometheus.Desc {
	return prometheus.NewDesc(
		fmt.Sprintf("storefront_%s_total", table),
		fmt.Sprintf("Number of total %s in the store", table),
		nil, nil)
}

// Describe returns all descriptions of the collector.
func (s *KVStore) Describe(ch chan<- *prometheus.Desc) {
	ch <- kvWritesDesc
	ch <- kvReadsDesc
	for _, table := range resourceBuckets {
		ch <- resourceDesc(table)
	}
}

// Collect returns the current state of all metrics of the collector.
func (s *KVStore) Collect(ch chan<- prometheus.Metric) {
	if s.db == nil {
		return
	}

	stats := s.db.Stats()

	ch <- prometheus.MustNewConstMetric(
		kvReadsDesc,
		prometheus.CounterValue,
		float64(stats.TxN),
	)

	ch <- prometheus.MustNewConstMetric(
		kvWritesDesc,
		prometheus.CounterValue,
		float64(stats.TxStats.Write),
	)

	_ = s.db.View(func(tx *bolt.Tx) error {
		for _, table := range resourceBuckets {
			keyNum := 0
			if b := tx.Bucket([]byte(table)); b != nil {
				keyNum = b.Stats().KeyN
			}

			ch <- prometheus.MustNewConstMetric(
				resourceDesc(table),
				prometheus.GaugeValue,
				float64(keyNum),
			)
		}
		return nil
	})
}
