package dto

type StatusOutput struct {
	Speaking bool
	State    string
	Page     int
}
