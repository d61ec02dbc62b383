package dto

import "time"

type SetInput struct {
	Key        string
	Value      string
	Confidence *float64
}

type PreferenceOutput struct {
	Key        string
	Value      string
	Confidence float64
	UpdatedAt  time.Time
}

type ObserveInput struct {
	Kind   string
	Detail string
}

type ObservationOutput struct {
	ID        string
	Kind      string
	Detail    string
	CreatedAt time.Time
}
