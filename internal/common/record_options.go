package common

// RecordOptions carries the optional parts of an activity recording call.
type RecordOptions struct {
	ActorID   *string
	ActorType *string
	Async     bool
}

type RecordOption func(*RecordOptions)

// WithActor attributes the activity to someone other than the subject user.
func WithActor(actorID, actorType string) RecordOption {
	return func(o *RecordOptions) {
		if actorID != "" {
			o.ActorID = &actorID
		}
		if actorType != "" {
			o.ActorType = &actorType
		}
	}
}

// Async requests fire-and-forget recording.
func Async() RecordOption {
	return func(o *RecordOptions) {
		o.Async = true
	}
}

func ApplyRecordOptions(opts ...RecordOption) RecordOptions {
	var o RecordOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
