package dto

import "time"

type StartInput struct {
	DocumentID   string
	Page         int
	TotalSeconds int64
}

type StatusOutput struct {
	Active         bool
	DocumentID     string
	Page           int
	SessionSeconds int64
	TotalSeconds   int64
	Loading        bool
	Declutter      bool
}

type StreakOutput struct {
	Current int
	Longest int
	LastDay time.Time
}
