package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookflow/models"
)

func slotAt(start time.Time, d time.Duration) models.TimeSlot {
	return models.TimeSlot{Start: start, End: start.Add(d)}
}

func TestRulesAllows(t *testing.T) {
	rules := testRules()
	tue := utcDate(2026, time.March, 3, 18, 0) // allowed Tuesday, window start

	assert.True(t, rules.Allows(slotAt(tue, 30*time.Minute)))
	assert.True(t, rules.Allows(slotAt(tue.Add(30*time.Minute), 30*time.Minute)))

	// Right duration, off the grid.
	assert.False(t, rules.Allows(slotAt(tue.Add(15*time.Minute), 30*time.Minute)))
	assert.False(t, rules.Allows(slotAt(tue.Add(10*time.Second), 30*time.Minute)))

	// Wrong duration or malformed.
	assert.False(t, rules.Allows(slotAt(tue, 45*time.Minute)))
	assert.False(t, rules.Allows(models.TimeSlot{Start: tue.Add(30 * time.Minute), End: tue}))

	// Outside the daily window or past its end.
	assert.False(t, rules.Allows(slotAt(utcDate(2026, time.March, 3, 17, 30), 30*time.Minute)))
	assert.False(t, rules.Allows(slotAt(utcDate(2026, time.March, 3, 19, 0), 30*time.Minute)))

	// Disallowed weekday.
	assert.False(t, rules.Allows(slotAt(utcDate(2026, time.March, 4, 18, 0), 30*time.Minute)))
}

func TestRulesAllowsMatchesGenerate(t *testing.T) {
	rules := testRules()
	from := utcDate(2026, time.March, 2, 0, 0)
	days, err := Generate(rules, from, from.AddDate(0, 0, 21), from, nil)
	assert.NoError(t, err)

	for _, s := range Flatten(days) {
		assert.True(t, rules.Allows(s), "generated slot %s must satisfy its own rules", s.Start)
	}
}

func TestRulesAllowsHonorsLocation(t *testing.T) {
	rules := testRules()
	// 18:00 UTC expressed in another zone is still the same instant.
	offset := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2026, time.March, 3, 21, 0, 0, 0, offset)
	assert.True(t, rules.Allows(slotAt(start, 30*time.Minute)))
}
