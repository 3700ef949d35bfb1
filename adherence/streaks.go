package adherence

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mohae/deepcopy"
)

type datedDay struct {
	date time.Time
	good bool
}

// ComputeStreaks returns the current and best runs of consecutive good days. The input
// may be in any order and is not modified. Days with a malformed date are ignored.
func ComputeStreaks(days []Day) Streak {
	dated := make([]datedDay, 0, len(days))
	for _, d := range days {
		date, err := time.Parse(DateLayout, d.Date)
		if err != nil {
			continue
		}
		dated = append(dated, datedDay{date: date, good: d.Good()})
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].date.After(dated[j].date)
	})

	streak := Streak{}
	run := 0
	// the run which includes the most recent day is still open
	open := true
	var previous time.Time

	closeRun := func() {
		if run > streak.Best {
			streak.Best = run
		}
		if open {
			streak.Current = run
			open = false
		}
	}

	for i, d := range dated {
		switch {
		case !d.good:
			closeRun()
			run = 0
		case i == 0 || previous.Sub(d.date) == 24*time.Hour:
			run++
		default:
			closeRun()
			run = 1
		}
		previous = d.date
	}
	closeRun()

	return streak
}

// MarkTaken returns a copy of days in which the medication is recorded as taken on the
// calendar day of now. Marking a medication already taken that day returns an unchanged
// copy. The day is created when missing.
func MarkTaken(days []Day, medication Medication, now time.Time) []Day {
	updated := deepcopy.Copy(days).([]Day)
	if updated == nil {
		updated = make([]Day, 0, 1)
	}

	today := DateKey(now)
	index := -1
	for i := range updated {
		if updated[i].Date == today {
			index = i
			break
		}
	}
	if index < 0 {
		day := Day{
			Date:             today,
			TakenMedications: make([]TakenMedication, 0, 1),
		}
		if len(updated) > 0 {
			day.UserId = updated[0].UserId
		}
		updated = append(updated, day)
		index = len(updated) - 1
	}

	day := &updated[index]
	if day.HasTaken(medication.Id) {
		return updated
	}

	day.TakenMedications = append(day.TakenMedications, TakenMedication{
		MedicationId:   medication.Id,
		MedicationName: medication.Name,
		Dosage:         medication.Dosage,
		TimeTaken:      now,
	})
	day.AdherenceScore = Score(day.TakenMedications)
	return updated
}

// Score returns the adherence score of a day with the given medications taken.
func Score(taken []TakenMedication) int {
	unique := mapset.NewThreadUnsafeSet[string]()
	for _, t := range taken {
		unique.Add(t.MedicationId)
	}
	return min(MaxScore, unique.Cardinality()*ScorePerMedication)
}
