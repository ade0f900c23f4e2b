package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
)

// JSONFormatter writes records as timeline host events.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, _ model.TimeRange, records []model.UsageRecord) error {
	data, err := sonic.MarshalIndent(model.ToEvents(records), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
