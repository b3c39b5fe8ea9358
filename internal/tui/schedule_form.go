package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"t4auto/internal/domain"
	"t4auto/internal/schedule"
)

// ScheduleRowForm asks for the fields of a new schedule row. Fields set in
// prefill are offered as defaults. When stores is empty the store is typed
// as a numeric ID.
func ScheduleRowForm(stores []domain.Store, prefill schedule.Row) (*schedule.Row, error) {
	accessible := Accessible()

	storeID := prefill.StoreID
	keyword := prefill.Keyword
	reason := prefill.Reason
	start, end := "", ""
	if prefill.Start != (schedule.TimeOfDay{}) || prefill.End != (schedule.TimeOfDay{}) {
		start, end = prefill.Start.String(), prefill.End.String()
	}

	var storeField huh.Field
	storeText := ""
	if len(stores) > 0 {
		if storeID == 0 {
			storeID = stores[0].ID
		}
		storeField = huh.NewSelect[int]().
			Title("Store").
			Options(storeOptions(stores)...).
			Value(&storeID).
			Height(min(max(len(stores), 5), 12))
	} else {
		if storeID > 0 {
			storeText = strconv.Itoa(storeID)
		}
		storeField = huh.NewInput().
			Title("Store ID").
			Description("Run 't4auto stores list' to see the stores you can manage.").
			Value(&storeText).
			Validate(validateStoreID)
	}

	details := huh.NewGroup(
		huh.NewInput().
			Title("Keyword").
			Description("Items whose name matches this search are toggled.").
			Value(&keyword).
			Validate(validateKeyword),
		huh.NewInput().
			Title("Offline at").
			Placeholder("HH:MM").
			Value(&start).
			Validate(validateTime),
		huh.NewInput().
			Title("Back online at").
			Placeholder("HH:MM").
			Value(&end).
			Validate(validateTime),
		huh.NewInput().
			Title("Reason").
			Placeholder(domain.DefaultReason).
			Value(&reason),
	)

	if err := runForm(accessible, huh.NewGroup(storeField), details); err != nil {
		return nil, err
	}

	if len(stores) == 0 {
		storeID, _ = strconv.Atoi(strings.TrimSpace(storeText))
	}
	row := schedule.Row{
		StoreID: storeID,
		Keyword: strings.TrimSpace(keyword),
		Start:   schedule.MustParseTimeOfDay(start),
		End:     schedule.MustParseTimeOfDay(end),
		Reason:  strings.TrimSpace(reason),
	}
	if s, ok := domain.FindStore(stores, storeID); ok {
		row.StoreName = s.Name
	}

	confirm := true
	if err := runForm(accessible, huh.NewGroup(
		huh.NewNote().
			Title("New schedule row").
			Description(RowSummary(row)),
		huh.NewConfirm().
			Title("Add this row?").
			Affirmative("Add").
			Negative("Cancel").
			Value(&confirm),
	)); err != nil {
		return nil, err
	}
	if !confirm {
		return nil, ErrAborted
	}
	return &row, nil
}

// SelectRowForm lets the user pick one of rows and returns its position.
func SelectRowForm(title string, rows []schedule.Row) (int, error) {
	if len(rows) == 0 {
		return 0, errors.New("schedule is empty")
	}

	options := make([]huh.Option[int], 0, len(rows))
	for i, r := range rows {
		options = append(options, huh.NewOption(RowLabel(i, r), i))
	}

	selected := 0
	confirm := false
	err := runForm(Accessible(),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(options...).
				Value(&selected).
				Height(min(max(len(rows), 5), 12)),
		),
		huh.NewGroup(
			huh.NewNote().
				Title("Row details").
				DescriptionFunc(func() string { return RowSummary(rows[selected]) }, &selected),
			huh.NewConfirm().
				Title("Continue?").
				Value(&confirm),
		),
	)
	if err != nil {
		return 0, err
	}
	if !confirm {
		return 0, ErrAborted
	}
	return selected, nil
}

func storeOptions(stores []domain.Store) []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(stores))
	for _, s := range stores {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", s.Name, s.ID), s.ID))
	}
	return options
}

// RowLabel formats a row on one line, numbered from 1.
func RowLabel(i int, r schedule.Row) string {
	return fmt.Sprintf("%d. %s @ %s  %s-%s", i+1, r.Keyword, r.Store(), r.Start, r.End)
}

// RowSummary formats a row's details for a confirmation note.
func RowSummary(r schedule.Row) string {
	reason := r.Reason
	if reason == "" {
		reason = domain.DefaultReason + " (default)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Store: %s\n", r.Store())
	fmt.Fprintf(&b, "Keyword: %s\n", r.Keyword)
	fmt.Fprintf(&b, "Offline at: %s\n", r.Start)
	fmt.Fprintf(&b, "Online at: %s\n", r.End)
	fmt.Fprintf(&b, "Reason: %s", reason)
	if r.End.Hour*60+r.End.Minute < r.Start.Hour*60+r.Start.Minute {
		b.WriteString("\nRuns overnight.")
	}
	return b.String()
}

func validateKeyword(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("keyword is required")
	}
	return nil
}

func validateTime(s string) error {
	_, err := schedule.ParseTimeOfDay(s)
	return err
}

func validateStoreID(s string) error {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return errors.New("store ID must be a positive number")
	}
	return nil
}
