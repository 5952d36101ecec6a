package service

import "time"

// Scheduler indexes entities for the expiry sweeper so the sweep can
// pop due entries instead of scanning every map. Services tolerate a
// nil scheduler; the full-scan sweep methods remain the fallback.
type Scheduler interface {
	ScheduleRequest(requestID string, expiresAt time.Time)
	ScheduleTrade(tradeID string, expiresAt time.Time)
	ScheduleAuction(auctionID string, expiresAt time.Time)
}
