package model

import "time"

// AssessmentResult is a completed session as submitted to the result store
type AssessmentResult struct {
	SessionID   string     `json:"sessionId" bson:"sessionId"`
	Responses   []Response `json:"responses" bson:"responses"`
	Report      *Report    `json:"report" bson:"report"`
	SubmittedAt time.Time  `json:"submittedAt" bson:"submittedAt"`
}
