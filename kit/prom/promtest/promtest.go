// Package promtest decodes and searches prometheus metric families in tests.
package promtest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// FromHTTPResponse decodes a /metrics response in whatever exposition format
// its Content-Type names. The body is always closed.
func FromHTTPResponse(r *http.Response) ([]*dto.MetricFamily, error) {
	defer r.Body.Close()

	dec := expfmt.NewDecoder(r.Body, expfmt.ResponseFormat(r.Header))
	var mfs []*dto.MetricFamily
	for {
		mf := &dto.MetricFamily{}
		err := dec.Decode(mf)
		if errors.Is(err, io.EOF) {
			return mfs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding metric family %d: %w", len(mfs), err)
		}
		mfs = append(mfs, mf)
	}
}

// MustGather gathers g, failing the test on error.
func MustGather(tb testing.TB, g prometheus.Gatherer) []*dto.MetricFamily {
	tb.Helper()

	mfs, err := g.Gather()
	if err != nil {
		tb.Fatalf("gathering metrics: %v", err)
	}
	return mfs
}

// FindMetric returns the first metric in the family called name whose labels
// include every pair in labels. Labels not named in labels are ignored.
// It returns nil when nothing matches.
func FindMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	_, m := findMetric(mfs, name, labels)
	return m
}

// MustFindMetric returns the matching metric, or logs what was available and
// fails the test.
func MustFindMetric(tb testing.TB, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	tb.Helper()

	fam, m := findMetric(mfs, name, labels)
	if fam == nil {
		names := make([]string, 0, len(mfs))
		for _, mf := range mfs {
			names = append(names, mf.GetName())
		}
		sort.Strings(names)
		tb.Fatalf("metric family with name %q not found; available: %s", name, strings.Join(names, ", "))
		return nil
	}

	if m == nil {
		var avail []string
		for _, m := range fam.Metric {
			pairs := make([]string, len(m.Label))
			for i, l := range m.Label {
				pairs[i] = fmt.Sprintf("%q: %q", l.GetName(), l.GetValue())
			}
			avail = append(avail, "{"+strings.Join(pairs, ", ")+"}")
		}
		tb.Fatalf("metric %q with labels %v not found; available: %s", name, labels, strings.Join(avail, " "))
		return nil
	}

	return m
}

func findMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.MetricFamily, *dto.Metric) {
	var fam *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == name {
			fam = mf
			break
		}
	}

	if fam == nil {
		return nil, nil
	}

	for _, m := range fam.Metric {
		have := make(map[string]string, len(m.Label))
		for _, l := range m.Label {
			have[l.GetName()] = l.GetValue()
		}

		match := true
		for k, v := range labels {
			if have[k] != v {
				match = false
				break
			}
		}
		if match {
			return fam, m
		}
	}

	return fam, nil
}
