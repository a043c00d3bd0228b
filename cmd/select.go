package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

// errAborted is returned when the user closes a picker
var errAborted = errors.New("selection aborted")

// resolveEventID returns --event, then the configured default, then asks
func resolveEventID() (int64, error) {
	if flagEventID != 0 {
		return flagEventID, nil
	}
	if appConfig != nil && appConfig.DefaultEvent != 0 {
		return appConfig.DefaultEvent, nil
	}
	return pickEvent()
}

// resolveSpeakerID returns --speaker, then the configured default, then asks
// among the speakers of eventID.
func resolveSpeakerID(eventID int64) (int64, error) {
	if flagSpeakerID != 0 {
		return flagSpeakerID, nil
	}
	if appConfig != nil && appConfig.DefaultSpeaker != 0 {
		return appConfig.DefaultSpeaker, nil
	}
	if eventID == 0 {
		var err error
		if eventID, err = resolveEventID(); err != nil {
			return 0, err
		}
	}
	return pickSpeaker(eventID)
}

// resolveEventAndSpeaker resolves both ids. An unset event is taken from the
// speaker record when a speaker was given.
func resolveEventAndSpeaker() (int64, int64, error) {
	eventID := flagEventID
	if eventID == 0 && appConfig != nil {
		eventID = appConfig.DefaultEvent
	}
	speakerID := flagSpeakerID
	if speakerID == 0 && appConfig != nil {
		speakerID = appConfig.DefaultSpeaker
	}

	if speakerID != 0 && eventID == 0 {
		sp, err := apiClient.GetSpeaker(getContext(), speakerID)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to resolve speaker: %w", err)
		}
		return sp.EventID, speakerID, nil
	}

	if eventID == 0 {
		var err error
		if eventID, err = pickEvent(); err != nil {
			return 0, 0, err
		}
	}
	if speakerID == 0 {
		var err error
		if speakerID, err = pickSpeaker(eventID); err != nil {
			return 0, 0, err
		}
	}
	return eventID, speakerID, nil
}

func pickEvent() (int64, error) {
	events, err := apiClient.ListEvents(getContext())
	if err != nil {
		return 0, fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		return 0, fmt.Errorf("no events found")
	}
	if len(events) == 1 {
		return events[0].ID, nil
	}

	idx, err := fuzzyfinder.Find(
		events,
		func(i int) string { return fmt.Sprintf("%d  %s", events[i].ID, events[i].Name) },
		fuzzyfinder.WithPromptString("event> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			e := events[i]
			return fmt.Sprintf("%s\n\nStart: %s\nStatus: %s\n\n%s",
				e.Name, e.GetDisplayDate(displayDateFormat()), e.Status, e.Description)
		}),
	)
	if err != nil {
		return 0, errAborted
	}
	return events[idx].ID, nil
}

func pickSpeaker(eventID int64) (int64, error) {
	speakers, err := apiClient.ListSpeakers(getContext(), eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to list speakers: %w", err)
	}
	if len(speakers) == 0 {
		return 0, fmt.Errorf("event %d has no speakers", eventID)
	}

	idx, err := fuzzyfinder.Find(
		speakers,
		func(i int) string {
			return fmt.Sprintf("%d  %s <%s>", speakers[i].ID, speakers[i].FullName(), speakers[i].Email)
		},
		fuzzyfinder.WithPromptString("speaker> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			s := speakers[i]
			return fmt.Sprintf("%s\n%s\n\nCompany: %s\nTitle: %s",
				s.FullName(), s.Email, s.Company, s.JobTitle)
		}),
	)
	if err != nil {
		return 0, errAborted
	}
	return speakers[idx].ID, nil
}

// pickRequirement lets the user choose from a catalog in display order
func pickRequirement(catalog []domain.AssetRequirement) (domain.AssetRequirement, error) {
	if len(catalog) == 0 {
		return domain.AssetRequirement{}, fmt.Errorf("event has no asset requirements")
	}
	idx, err := fuzzyfinder.Find(
		catalog,
		func(i int) string { return requirementLine(catalog[i]) },
		fuzzyfinder.WithPromptString("requirement> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return requirementDetail(catalog[i])
		}),
	)
	if err != nil {
		return domain.AssetRequirement{}, errAborted
	}
	return catalog[idx], nil
}

func requirementLine(r domain.AssetRequirement) string {
	marker := " "
	if r.IsRequired {
		marker = "*"
	}
	return fmt.Sprintf("%s %d  %s (%s)", marker, r.ID, r.Label, r.AssetType)
}

func requirementDetail(r domain.AssetRequirement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", r.Label)
	fmt.Fprintf(&b, "Type: %s\n", r.AssetType)
	fmt.Fprintf(&b, "Required: %t\n", r.IsRequired)
	fmt.Fprintf(&b, "Accepts: %s\n", r.GetAcceptedString())
	fmt.Fprintf(&b, "Limits: %s\n", r.GetConstraintsString())
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}
	return b.String()
}

// parseID parses a positive numeric id argument
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func displayDateFormat() string {
	if appConfig != nil && appConfig.DisplayDateFormat != "" {
		return appConfig.DisplayDateFormat
	}
	return "2006-01-02"
}

// printCacheNotice warns when data came from a local snapshot
func printCacheNotice(fromCache bool) {
	if fromCache {
		fmt.Println(ui.FormatWarning("Backend unreachable, showing cached requirements"))
	}
}
