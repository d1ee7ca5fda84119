package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	r := NewReport()
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Empty(t, r.Info)
	assert.Equal(t, "0 errors, 0 warnings, 0 info", r.Summary)
	assert.NoError(t, r.Err())
}

func TestAddError(t *testing.T) {
	r := NewReport()
	r.AddError(Result{
		Level:   LevelData,
		Message: "room has no unit number",
		Room:    "r-17",
	})
	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, SeverityError, r.Errors[0].Severity)
	assert.Equal(t, "1 errors, 0 warnings, 0 info", r.Summary)
	assert.EqualError(t, r.Err(), "data: room has no unit number")
}

func TestErrCountsRemaining(t *testing.T) {
	r := NewReport()
	r.AddError(Result{Level: LevelTyping, Message: "first"})
	r.AddError(Result{Level: LevelData, Message: "second"})
	r.AddError(Result{Level: LevelData, Message: "third"})
	assert.EqualError(t, r.Err(), "typing: first (and 2 more errors)")
}

func TestAddWarning(t *testing.T) {
	r := NewReport()
	r.AddWarning(Result{Level: LevelData, Message: "unknown room type", Lot: "A1"})
	assert.True(t, r.Valid, "warnings should not invalidate report")
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, SeverityWarning, r.Warnings[0].Severity)
}

func TestAddInfo(t *testing.T) {
	r := NewReport()
	r.AddInfo(Result{Level: LevelTyping, Message: "fyi"})
	assert.True(t, r.Valid, "info should not invalidate report")
	assert.Len(t, r.Info, 1)
}

func TestMerge(t *testing.T) {
	r1 := NewReport()
	r1.AddWarning(Result{Level: LevelSchema, Message: "warn1"})

	r2 := NewReport()
	r2.AddError(Result{Level: LevelTyping, Message: "err1"})
	r2.AddWarning(Result{Level: LevelData, Message: "warn2"})
	r2.AddInfo(Result{Level: LevelData, Message: "info1"})

	r1.Merge(r2)

	assert.False(t, r1.Valid)
	assert.Len(t, r1.Errors, 1)
	assert.Len(t, r1.Warnings, 2)
	assert.Len(t, r1.Info, 1)
	assert.Equal(t, "1 errors, 2 warnings, 1 info", r1.Summary)
}

func TestMergeValidIntoValid(t *testing.T) {
	r1 := NewReport()
	r2 := NewReport()
	r2.AddInfo(Result{Level: LevelSchema, Message: "note"})

	r1.Merge(r2)
	r1.Merge(nil)

	assert.True(t, r1.Valid)
	assert.Len(t, r1.Info, 1)
}
