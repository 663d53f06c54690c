package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/vsinha/stocktransfer/pkg/infrastructure/events"
)

// progressPrinter reports run events as verbose CLI progress lines
type progressPrinter struct {
	w io.Writer
}

var progressEvents = []string{
	events.RunStartedEvent,
	events.ShortfallIdentifiedEvent,
	events.RunCompletedEvent,
}

func (p *progressPrinter) CanHandle(eventType string) bool {
	return slices.Contains(progressEvents, eventType)
}

func (p *progressPrinter) Handle(event events.Event) error {
	switch data := event.Data().(type) {
	case events.RunStarted:
		fmt.Fprintf(p.w, "   %d records in %d groups\n", data.RecordCount, data.GroupCount)
	case events.ShortfallIdentified:
		s := data.Shortfall
		fmt.Fprintf(p.w, "   ⚠️  %s/%s at %s: %s of %s units unmatched\n",
			s.Article, s.OM, s.Location, s.UnmetQty, s.NeededQty)
	case events.RunCompleted:
		fmt.Fprintf(p.w, "   %d suggestions, %d shortfalls\n", data.SuggestionCount, data.ShortfallCount)
	default:
		return fmt.Errorf("unexpected payload %T for %s", data, event.Type())
	}
	return nil
}
