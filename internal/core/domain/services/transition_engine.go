package services

import (
	"fmt"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"
)

// noteReassigned marks ledger entries produced by a forced reassignment so
// they are distinguishable from a first assignment.
const noteReassigned = "reassigned"

// TransitionEngine is the domain service that validates and applies parcel
// status changes. It layers role rules on top of the transition graph owned
// by parcel.Status:
//
//   - a driver may fire picked_up, in_transit, and delivered_to_recipient,
//     but only on a parcel bound to them
//   - a recipient may fire delivered (confirming receipt) and completed
//   - an administrator may fire cancelled from any non-terminal state,
//     completed, and the assignment/reassignment edges
//   - a sender may only request cancellation while the parcel is still
//     pending or assigned
//
// On success the engine mutates the aggregate and returns exactly one ledger
// entry for the caller to append. The engine performs no persistence and no
// notification dispatch, which keeps it pure and independently testable;
// command handlers own the transaction and the post-commit fan-out.
type TransitionEngine struct{}

// NewTransitionEngine creates a new TransitionEngine instance.
func NewTransitionEngine() TransitionEngine {
	return TransitionEngine{}
}

// Apply validates and applies a requested status change on behalf of an actor.
//
// Returns:
//   - the single ledger entry for the committed transition
//   - InvalidTransitionError when (current, requested) is not a graph edge or
//     the actor's role lacks the right for that edge
//
// The assignment edges are excluded here: binding a driver goes through
// ApplyAssignment/ApplyReassignment so the driver reference and the status
// always change together.
func (e TransitionEngine) Apply(
	p *parcel.Parcel,
	requested parcel.Status,
	actor kernel.Actor,
	location *kernel.Location,
	notes string,
	now time.Time,
) (*parcel.HistoryEntry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := e.authorize(p, requested, actor); err != nil {
		return nil, err
	}

	if requested == parcel.StatusDelivered {
		// Receipt confirmation without a signature; ConfirmDelivery captures
		// the confirmation timestamp either way.
		if err := p.ConfirmDelivery("", "", now); err != nil {
			return nil, err
		}
	} else if err := p.ChangeStatus(requested, now); err != nil {
		return nil, err
	}

	return parcel.NewHistoryEntry(p.ID(), p.Status(), actor.ID(), location, notes, now)
}

// ApplyDeliveryConfirmation fires delivered_to_recipient -> delivered on
// behalf of the recipient, capturing the optional signature and the name of
// the confirming party.
func (e TransitionEngine) ApplyDeliveryConfirmation(
	p *parcel.Parcel,
	actor kernel.Actor,
	signature string,
	confirmedBy string,
	notes string,
	now time.Time,
) (*parcel.HistoryEntry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := e.authorize(p, parcel.StatusDelivered, actor); err != nil {
		return nil, err
	}

	if err := p.ConfirmDelivery(signature, confirmedBy, now); err != nil {
		return nil, err
	}

	return parcel.NewHistoryEntry(p.ID(), p.Status(), actor.ID(), nil, notes, now)
}

// ApplyAssignment binds a driver to a pending, unassigned parcel and moves it
// pending -> assigned. The caller has already verified the driver is active
// on a row read locked for the duration of the transaction.
func (e TransitionEngine) ApplyAssignment(
	p *parcel.Parcel,
	driverID kernel.UUID,
	actorID kernel.UUID,
	notes string,
	now time.Time,
) (*parcel.HistoryEntry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := p.Assign(driverID, now); err != nil {
		return nil, err
	}

	return parcel.NewHistoryEntry(p.ID(), p.Status(), actorID, nil, notes, now)
}

// ApplyReassignment rebinds the parcel to a new driver on behalf of an
// administrator and re-enters assigned. The ledger entry is marked so a
// reassignment is distinguishable from a first assignment.
func (e TransitionEngine) ApplyReassignment(
	p *parcel.Parcel,
	newDriverID kernel.UUID,
	actor kernel.Actor,
	notes string,
	now time.Time,
) (*parcel.HistoryEntry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, errs.NewInvalidTransitionErrorWithCause(
			p.Status().String(), parcel.StatusAssigned.String(),
			fmt.Errorf("role %s may not reassign a parcel", actor.Role()))
	}

	if err := p.Reassign(newDriverID, now); err != nil {
		return nil, err
	}

	entryNotes := noteReassigned
	if notes != "" {
		entryNotes = fmt.Sprintf("%s: %s", noteReassigned, notes)
	}

	return parcel.NewHistoryEntry(p.ID(), p.Status(), actor.ID(), nil, entryNotes, now)
}

// authorize checks whether the actor's role may fire the edge
// (p.Status(), requested) on this particular parcel. Graph membership itself
// is enforced by the aggregate when the mutation is applied.
func (e TransitionEngine) authorize(p *parcel.Parcel, requested parcel.Status, actor kernel.Actor) error {
	denied := func() error {
		return errs.NewInvalidTransitionErrorWithCause(
			p.Status().String(), requested.String(),
			fmt.Errorf("role %s may not fire this edge", actor.Role()))
	}

	switch requested {
	case parcel.StatusPickedUp, parcel.StatusInTransit, parcel.StatusDeliveredToRecipient:
		if actor.Role() != kernel.RoleDriver {
			return denied()
		}
		if p.Driver() == nil || !p.Driver().IsEqual(actor.ID()) {
			// Another driver's parcel is invisible to this driver; report it
			// the same way a missing parcel would be.
			return errs.NewObjectNotFoundError("parcel", p.ID().String())
		}
		return nil

	case parcel.StatusDelivered:
		if actor.Role() != kernel.RoleRecipient || !p.Recipient().Matches(actor.ID()) {
			return denied()
		}
		return nil

	case parcel.StatusCompleted:
		if actor.IsAdmin() {
			return nil
		}
		if actor.Role() == kernel.RoleRecipient && p.Recipient().Matches(actor.ID()) {
			return nil
		}
		return denied()

	case parcel.StatusCancelled:
		if actor.IsAdmin() {
			return nil
		}
		if actor.Role() == kernel.RoleSender && p.Sender().Matches(actor.ID()) {
			// Senders may only back out before the driver has the parcel.
			if p.Status() == parcel.StatusPending || p.Status() == parcel.StatusAssigned {
				return nil
			}
		}
		return denied()

	default:
		// pending is never a transition target; assigned only via the
		// assignment paths.
		return denied()
	}
}
