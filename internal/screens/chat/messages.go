package chat

import (
	"time"

	"github.com/abhisek/sensei/internal/tutor"
)

// answerMsg carries the tutor's reply for the pending question.
type answerMsg struct {
	Answer *tutor.Answer
	Err    error
}

// spinnerTickMsg animates the waiting indicator.
type spinnerTickMsg time.Time
