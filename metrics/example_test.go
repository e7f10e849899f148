package metrics_test

import (
	"fmt"

	"github.com/wesleyorama2/tally/metrics"
)

func Example() {
	pages := make(chan metrics.ReportPage, 2)

	for worker := range 2 {
		go func() {
			reg := metrics.NewRegistry()

			requests := reg.Event().Name("requests").MustBuild()
			size := reg.Event().Name("payload_kb").Buckets(1, 4, 16).MustBuild()

			for i := range 3 {
				requests.ObserveUnit()
				size.Observe(float64(worker*8 + i))
			}

			pages <- reg.ReportPage()
		}()
	}

	builder := metrics.NewReportBuilder()
	builder.AddPage(<-pages)
	builder.AddPage(<-pages)

	report, err := builder.Build()
	if err != nil {
		panic(err)
	}
	fmt.Print(report)
	// Output:
	// payload_kb: 6; sum 30; avg 5
	//   bucket <= 1: 2
	//   bucket <= 4: 1
	//   bucket <= 16: 3
	//   bucket +Inf: 0
	// requests: 6 (counter)
}
