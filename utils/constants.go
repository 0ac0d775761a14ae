package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Geography constants
const (
	// KmToMiles converts kilometers to statute miles.
	KmToMiles = 0.621371

	// EarthRadiusKm is the mean Earth radius used for great-circle distance.
	EarthRadiusKm = 6371.0088

	// DistanceResolveTimeout bounds centroid resolution during one
	// eligibility check so a slow or absent geo backend degrades to
	// exact-match instead of hanging the request.
	DistanceResolveTimeout = 2 * time.Second
)
