package api

type bookingApi interface {
	coordinator
}
