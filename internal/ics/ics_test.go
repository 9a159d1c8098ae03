package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewell/scheduler/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	start := time.Date(2018, 11, 1, 9, 45, 0, 0, time.UTC)
	appts := []model.Appointment{
		{Key: 0, ID: model.ConfirmedID("01HX"), Title: "Meeting", Location: "Room 1", Notes: "bring slides",
			StartDate: start, EndDate: start.Add(75 * time.Minute)},
		{Key: 1, ID: model.PendingID(0), Title: "Gym", StartDate: start.Add(24 * time.Hour), EndDate: start.Add(25 * time.Hour)},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, appts, "", start))
	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "UID:01HX")
	assert.Contains(t, out, "UID:pending-0")
	assert.Contains(t, out, DefaultProdID)

	docs, err := Import(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Meeting", docs[0].Title)
	assert.Equal(t, "Room 1", docs[0].Location)
	assert.Equal(t, "bring slides", docs[0].Notes)
	assert.True(t, docs[0].StartDate.Equal(start))
	assert.True(t, docs[0].EndDate.Equal(start.Add(75*time.Minute)))
	assert.Equal(t, "Gym", docs[1].Title)
}

func TestImport_DefaultsAndSkips(t *testing.T) {
	src := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:a",
		"DTSTART:20240506T090000Z",
		"SUMMARY:No end",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:b",
		"SUMMARY:No start",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	docs, err := Import(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "No end", docs[0].Title)
	assert.Equal(t, time.Hour, docs[0].EndDate.Sub(docs[0].StartDate))
}

func TestImport_Garbage(t *testing.T) {
	_, err := Import(strings.NewReader("not a calendar"))
	assert.Error(t, err)
}
