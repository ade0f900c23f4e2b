package model

// UsageRecord is one (bucket, application) pair with non-zero focus time.
type UsageRecord struct {
	Window          TimeRange `json:"window"`
	Package         string    `json:"package"`
	AppName         string    `json:"app"`
	DurationMinutes int64     `json:"durationMinutes"`
}

// AppEvent is the payload handed to the timeline host for one record.
type AppEvent struct {
	App      string `json:"app"`
	Duration int64  `json:"duration"` // minutes
	Package  string `json:"package"`
}

// TimelineEvent is the host-facing event: a time range, a title and a payload.
type TimelineEvent struct {
	Time  TimeRange `json:"time"`
	Title string    `json:"title"`
	Data  AppEvent  `json:"data"`
}

// Payload returns the host payload for the record.
func (r UsageRecord) Payload() AppEvent {
	return AppEvent{
		App:      r.AppName,
		Duration: r.DurationMinutes,
		Package:  r.Package,
	}
}

// ToEvent converts the record to the timeline host event shape.
func (r UsageRecord) ToEvent() TimelineEvent {
	return TimelineEvent{
		Time:  r.Window,
		Title: r.AppName,
		Data:  r.Payload(),
	}
}

// ToEvents converts records in order.
func ToEvents(records []UsageRecord) []TimelineEvent {
	events := make([]TimelineEvent, 0, len(records))
	for _, r := range records {
		events = append(events, r.ToEvent())
	}
	return events
}
