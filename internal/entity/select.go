package entity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/spoolsync/internal/spoolman"
)

// TraySelect chooses which spool sits in a tray.
type TraySelect struct {
	ref       TrayRef
	source    Source
	writer    Writer
	refresher Refresher
	log       logrus.FieldLogger
}

// UniqueID implements Entity.
func (s *TraySelect) UniqueID() string {
	return uniqueIDPrefix + s.ref.ID()
}

// Name implements Entity.
func (s *TraySelect) Name() string {
	return s.ref.Label()
}

// Tray returns the tray this select controls.
func (s *TraySelect) Tray() TrayRef {
	return s.ref
}

// Options lists "None" followed by every spool label in server order.
func (s *TraySelect) Options() []string {
	spools := s.ref.spools(s.source)
	options := make([]string, 0, len(spools)+1)
	options = append(options, spoolman.NoneOption)
	for _, spool := range spools {
		options = append(options, spool.Label())
	}
	return options
}

// CurrentOption returns the label of the spool in the tray, or "None".
func (s *TraySelect) CurrentOption() string {
	return spoolman.LabelForTray(s.ref.spools(s.source), s.ref.ID())
}

// SelectOption assigns the spool named by option to the tray, or empties the
// tray when option is "None". Failures are logged and otherwise ignored; a
// coordinator refresh is always requested afterwards so the displayed state
// catches up with the server.
func (s *TraySelect) SelectOption(ctx context.Context, option string) {
	defer s.requestRefresh()

	if s.writer == nil {
		s.log.Warn("select is read-only, ignoring option")
		return
	}

	if option == spoolman.NoneOption {
		current, ok := spoolman.FindByTray(s.ref.spools(s.source), s.ref.ID())
		if !ok || current.ID == 0 {
			return
		}
		if err := s.writer.UnassignSpool(ctx, current.ID); err != nil {
			s.log.WithError(err).WithField("spool_id", current.ID).Error("failed to unassign spool")
			return
		}
		s.log.WithField("spool_id", current.ID).Info("spool unassigned")
		return
	}

	spoolID, err := spoolman.ParseSpoolID(option)
	if err != nil {
		s.log.WithError(err).WithField("option", option).Error("error parsing spool id from option")
		return
	}
	if err := s.writer.AssignSpool(ctx, spoolID, s.ref.ID()); err != nil {
		s.log.WithError(err).WithField("spool_id", spoolID).Error("failed to assign spool")
		return
	}
	s.log.WithField("spool_id", spoolID).Info("spool assigned")
}

func (s *TraySelect) requestRefresh() {
	if s.refresher != nil {
		s.refresher.RequestRefresh()
	}
}
