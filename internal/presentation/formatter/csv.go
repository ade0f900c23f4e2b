package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, _ model.TimeRange, records []model.UsageRecord) error {
	cw := csv.NewWriter(w)

	headers := []string{"Window Start", "Window End", "Package", "App", "Minutes"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	tp := util.GetTimeProvider()
	for _, r := range records {
		row := []string{
			tp.Format(r.Window.Start, time.RFC3339),
			tp.Format(r.Window.End, time.RFC3339),
			r.Package,
			r.AppName,
			strconv.FormatInt(r.DurationMinutes, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
