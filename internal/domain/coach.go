package domain

import "time"

// Coach is a static reference record describing a certifying coach. Coaches
// are loaded read-only from the bundled catalog and are never created or
// mutated by the app.
type Coach struct {
	Name          string    `json:"name"`
	Level         string    `json:"level"`
	DateCompleted time.Time `json:"dateCompleted"`
	ClubAbbr      string    `json:"clubAbbr"`
	ClubName      string    `json:"clubName"`
	LMSC          string    `json:"lmsc"` // regional affiliation code
}
