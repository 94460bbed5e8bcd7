package handlers

import (
	"solace/services/booking"
	"solace/services/notification"
	"solace/services/psychologist"
	"solace/services/user"
	"solace/utils"
)

// HandlerBundle groups all endpoint handlers over their backing services.
type HandlerBundle struct {
	Users         user.Service
	Psychologists psychologist.Service
	Bookings      booking.Service
	Notifications notification.Service
	Mailer        *utils.SMTPMailer
}
