package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/meltforce/ironcoach/internal/models"
)

type memStore struct {
	workouts     []models.Workout
	measurements []models.Measurement
}

func (s *memStore) InsertWorkout(_ context.Context, w models.Workout) error {
	s.workouts = append(s.workouts, w)
	return nil
}

func (s *memStore) UpsertMeasurement(_ context.Context, m models.Measurement) error {
	s.measurements = append(s.measurements, m)
	return nil
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing export: %v", err)
	}
	return path
}

const sampleExport = `{
	"workouts": [
		{
			"id": "22222222-2222-2222-2222-222222222222",
			"name": "Push Day",
			"order": 0,
			"instances": [
				{
					"id": "11111111-1111-1111-1111-111111111111",
					"name": "Bench Press",
					"order": 0,
					"sets": 3,
					"rep_target": "8",
					"rest_seconds": 90
				},
				{
					"id": "44444444-4444-4444-4444-444444444444",
					"name": "Push-up",
					"order": 1,
					"sets": 3,
					"rep_target": "15",
					"bodyweight": true
				}
			]
		}
	],
	"measurements": [
		{
			"subject_id": "33333333-3333-3333-3333-333333333333",
			"measured_on": "2025-05-01",
			"weight_kg": 80,
			"sex": "male",
			"method": "jackson_pollock_3"
		},
		{
			"subject_id": "33333333-3333-3333-3333-333333333333",
			"measured_on": "2025-06-01",
			"weight_kg": 79,
			"sex": "male",
			"method": "jackson_pollock_3",
			"coach_id": "55555555-5555-5555-5555-555555555555"
		}
	]
}`

// TestImportFile loads a full export and checks everything lands.
func TestImportFile(t *testing.T) {
	store := &memStore{}
	imp := New(store, testLog(), false)

	stats, err := imp.ImportFile(context.Background(), writeExport(t, sampleExport))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	if stats.WorkoutsImported != 1 {
		t.Errorf("WorkoutsImported = %d, want 1", stats.WorkoutsImported)
	}
	if stats.InstancesImported != 2 {
		t.Errorf("InstancesImported = %d, want 2", stats.InstancesImported)
	}
	if stats.MeasurementsImported != 2 {
		t.Errorf("MeasurementsImported = %d, want 2", stats.MeasurementsImported)
	}

	if len(store.workouts) != 1 {
		t.Fatalf("stored workouts = %d, want 1", len(store.workouts))
	}
	w := store.workouts[0]
	if w.Name != "Push Day" {
		t.Errorf("workout name = %q, want %q", w.Name, "Push Day")
	}
	for _, in := range w.Instances {
		if in.WorkoutID != w.ID {
			t.Errorf("instance %s workout id = %s, want %s", in.Name, in.WorkoutID, w.ID)
		}
	}
	if !w.Instances[1].Bodyweight {
		t.Error("second instance should be bodyweight")
	}

	if len(store.measurements) != 2 {
		t.Fatalf("stored measurements = %d, want 2", len(store.measurements))
	}
	m := store.measurements[0]
	if m.ID == uuid.Nil {
		t.Error("measurement without export id should get a generated one")
	}
	if m.MeasuredOn.Format("2006-01-02") != "2025-05-01" {
		t.Errorf("MeasuredOn = %v, want 2025-05-01", m.MeasuredOn)
	}
	if m.CoachID != nil {
		t.Errorf("CoachID = %v, want nil when the export omits it", m.CoachID)
	}
	if got := store.measurements[1].CoachID; got == nil || got.String() != "55555555-5555-5555-5555-555555555555" {
		t.Errorf("CoachID = %v, want 55555555-5555-5555-5555-555555555555", got)
	}
}

// TestImportDryRun parses and counts but writes nothing.
func TestImportDryRun(t *testing.T) {
	store := &memStore{}
	imp := New(store, testLog(), true)

	stats, err := imp.ImportFile(context.Background(), writeExport(t, sampleExport))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if stats.WorkoutsImported != 1 || stats.MeasurementsImported != 2 {
		t.Errorf("stats = %+v, want counts as in a real run", stats)
	}
	if len(store.workouts) != 0 || len(store.measurements) != 0 {
		t.Error("dry run must not write")
	}
}

// TestImportSkipsInvalidEntries counts bad records instead of failing.
func TestImportSkipsInvalidEntries(t *testing.T) {
	export := `{
		"workouts": [
			{"id": "00000000-0000-0000-0000-000000000000", "name": "Broken"}
		],
		"measurements": [
			{"subject_id": "33333333-3333-3333-3333-333333333333", "measured_on": "bad-date", "weight_kg": 80, "sex": "male"}
		]
	}`

	store := &memStore{}
	imp := New(store, testLog(), false)

	stats, err := imp.ImportFile(context.Background(), writeExport(t, export))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	if stats.WorkoutsImported != 0 || stats.MeasurementsImported != 0 {
		t.Errorf("stats = %+v, want nothing imported", stats)
	}
}

// TestImportMalformedFile surfaces a parse error.
func TestImportMalformedFile(t *testing.T) {
	imp := New(&memStore{}, testLog(), false)
	if _, err := imp.ImportFile(context.Background(), writeExport(t, "{not json")); err == nil {
		t.Error("ImportFile() error = nil, want parse error")
	}
}
