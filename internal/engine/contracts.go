// Contract lifecycle: posting, acceptance, completion checks, and the
// deadline sweep. Rewards are escrowed from the poster at creation and only
// ever move at a terminal transition.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/supply-lines/internal/contracts"
	"github.com/talgya/supply-lines/internal/intel"
	"github.com/talgya/supply-lines/internal/world"
)

// CreateContract posts a work order and escrows its reward.
func (s *Simulation) CreateContract(playerID string, c *contracts.Contract) (*contracts.Contract, error) {
	data, err := s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, rejectf(ErrPrecondition, "contract body required")
		}
		if c.RewardCredits <= 0 {
			return nil, rejectf(ErrPrecondition, "reward must be positive")
		}
		if c.DeadlineTick <= s.tick {
			return nil, rejectf(ErrPrecondition, "deadline must be in the future")
		}
		if c.BonusCredits > 0 && (c.BonusDeadlineTick <= s.tick || c.BonusDeadlineTick > c.DeadlineTick) {
			return nil, rejectf(ErrPrecondition, "bonus deadline must fall before the main deadline")
		}

		switch c.Kind {
		case contracts.KindHaul:
			if !world.ValidResource(c.Resource) || c.Quantity <= 0 {
				return nil, rejectf(ErrPrecondition, "haul contracts need a resource and quantity")
			}
			if _, ok := s.store.Zone(c.ToZoneID); !ok {
				return nil, rejectf(ErrNotFound, "destination zone %s not found", c.ToZoneID)
			}
		case contracts.KindSupply:
			if c.Quantity <= 0 {
				return nil, rejectf(ErrPrecondition, "supply contracts need a quantity")
			}
			z, ok := s.store.Zone(c.ToZoneID)
			if !ok {
				return nil, rejectf(ErrNotFound, "target zone %s not found", c.ToZoneID)
			}
			if z.BurnRate <= 0 {
				return nil, rejectf(ErrPrecondition, "%s does not consume supply", z.ID)
			}
			c.Resource = world.ResourceSupply
		case contracts.KindScout:
			switch c.TargetType {
			case contracts.TargetZone:
				if _, ok := s.store.Zone(c.TargetID); !ok {
					return nil, rejectf(ErrNotFound, "target zone %s not found", c.TargetID)
				}
			case contracts.TargetRoute:
				if _, ok := s.store.Route(c.TargetID); !ok {
					return nil, rejectf(ErrNotFound, "target route %s not found", c.TargetID)
				}
			default:
				return nil, rejectf(ErrPrecondition, "scout target must be a zone or route")
			}
		default:
			return nil, rejectf(ErrPrecondition, "unknown contract kind %q", c.Kind)
		}

		if p.Credits < c.Escrow() {
			return nil, rejectf(ErrNoResource, "need %d credits to escrow", c.Escrow())
		}

		p.Credits -= c.Escrow()
		c.ID = uuid.NewString()
		c.PosterID = p.ID
		c.Status = contracts.StatusOpen
		c.CreatedTick = s.tick
		s.store.PutContract(c)
		s.commitAction(p, "create_contract")
		s.emit(EventContractPosted, p.ID, ActorPlayer, map[string]any{
			"contract_id": c.ID,
			"kind":        string(c.Kind),
			"reward":      c.RewardCredits,
		})
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return data.(*contracts.Contract), nil
}

// AcceptContract claims an open contract. Acceptance is first-come: the
// contract moves to active with exactly one acceptor.
func (s *Simulation) AcceptContract(playerID, contractID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		c, ok := s.store.Contract(contractID)
		if !ok {
			return nil, rejectf(ErrNotFound, "contract %s not found", contractID)
		}
		if c.Status != contracts.StatusOpen {
			return nil, rejectf(ErrConflict, "contract %s is not open", contractID)
		}
		if c.PosterID == p.ID {
			return nil, rejectf(ErrPrecondition, "cannot accept your own contract")
		}

		active := 0
		for _, other := range s.store.Contracts() {
			if other.AcceptedBy == p.ID && other.Status == contracts.StatusActive {
				active++
			}
		}
		if active >= p.ContractCap() {
			return nil, rejectf(ErrRateLimit, "active contract cap %d reached", p.ContractCap())
		}

		c.AcceptedBy = p.ID
		c.Status = contracts.StatusActive
		c.AcceptedTick = s.tick
		s.store.PutContract(c)
		s.commitAction(p, "accept_contract")
		s.emit(EventContractAccepted, p.ID, ActorPlayer, map[string]any{"contract_id": c.ID})
		return map[string]any{"contract_id": c.ID}, nil
	})
}

// CompleteContract checks the per-kind completion predicate and pays out.
func (s *Simulation) CompleteContract(playerID, contractID string) (any, error) {
	return s.do(func() (any, error) {
		p, err := s.beginAction(playerID)
		if err != nil {
			return nil, err
		}
		c, ok := s.store.Contract(contractID)
		if !ok {
			return nil, rejectf(ErrNotFound, "contract %s not found", contractID)
		}
		if c.Status != contracts.StatusActive || c.AcceptedBy != p.ID {
			return nil, rejectf(ErrPrecondition, "contract %s is not active for you", contractID)
		}
		if s.tick > c.DeadlineTick {
			return nil, rejectf(ErrPrecondition, "contract %s is past its deadline", contractID)
		}

		switch c.Kind {
		case contracts.KindHaul:
			if p.LocationID != c.ToZoneID {
				return nil, rejectf(ErrNotAtLocation, "delivery requires presence at %s", c.ToZoneID)
			}
			if !p.Has(c.Resource, c.Quantity) {
				return nil, rejectf(ErrNoResource, "need %d %s on hand", c.Quantity, c.Resource)
			}
			p.Inventory[c.Resource] -= c.Quantity
			if poster, ok := s.store.Player(c.PosterID); ok {
				poster.Inventory[c.Resource] += c.Quantity
				s.store.PutPlayer(poster)
			}
		case contracts.KindSupply:
			// Presence-only check: the SU deposit is its own action, so the
			// courier proves arrival rather than re-proving the deposit.
			if p.LocationID != c.ToZoneID {
				return nil, rejectf(ErrNotAtLocation, "supply run requires presence at %s", c.ToZoneID)
			}
		case contracts.KindScout:
			if !s.hasFreshIntel(p.ID, c) {
				return nil, rejectf(ErrPrecondition, "no fresh intel on %s gathered since acceptance", c.TargetID)
			}
		}

		payout := c.Payout(s.tick)
		p.Credits += payout
		p.AdjustReputation(c.RewardReputation)
		c.Status = contracts.StatusCompleted
		s.store.PutContract(c)
		s.commitAction(p, "complete_contract")
		s.emit(EventContractCompleted, p.ID, ActorPlayer, map[string]any{
			"contract_id": c.ID,
			"payout":      payout,
		})
		return map[string]any{"contract_id": c.ID, "payout": payout}, nil
	})
}

// hasFreshIntel reports whether the player gathered a still-fresh report on
// the contract's target after accepting it.
func (s *Simulation) hasFreshIntel(playerID string, c *contracts.Contract) bool {
	fresh := uint64(s.tn.IntelFreshTicks)
	stale := uint64(s.tn.IntelStaleTicks)
	for _, r := range s.store.IntelReports() {
		if r.PlayerID != playerID || r.TargetType != c.TargetType || r.TargetID != c.TargetID {
			continue
		}
		if r.GatheredAt < c.AcceptedTick {
			continue
		}
		if r.FreshnessAt(s.tick, fresh, stale) == intel.Fresh {
			return true
		}
	}
	return false
}

// CancelContract withdraws an unaccepted contract and refunds its escrow.
func (s *Simulation) CancelContract(playerID, contractID string) (any, error) {
	return s.do(func() (any, error) {
		p, ok := s.store.Player(playerID)
		if !ok {
			return nil, rejectf(ErrNotFound, "player %s not found", playerID)
		}
		c, ok := s.store.Contract(contractID)
		if !ok {
			return nil, rejectf(ErrNotFound, "contract %s not found", contractID)
		}
		if c.PosterID != p.ID {
			return nil, rejectf(ErrNoPermission, "contract %s belongs to another player", contractID)
		}
		if c.Status != contracts.StatusOpen {
			return nil, rejectf(ErrConflict, "contract %s has been accepted", contractID)
		}

		p.Credits += c.Escrow()
		c.Status = contracts.StatusExpired
		s.store.PutContract(c)
		s.store.PutPlayer(p)
		s.emit(EventContractCancelled, p.ID, ActorPlayer, map[string]any{"contract_id": c.ID})
		return map[string]any{"contract_id": c.ID}, nil
	})
}

// processContractDeadlines sweeps past-deadline contracts: open ones expire
// with a refund, active ones fail with a refund and a reputation hit for
// the acceptor.
func (s *Simulation) processContractDeadlines(tick uint64) error {
	for _, c := range s.store.Contracts() {
		if c.Terminal() || tick <= c.DeadlineTick {
			continue
		}
		switch c.Status {
		case contracts.StatusOpen:
			c.Status = contracts.StatusExpired
			s.refundPoster(c)
			s.store.PutContract(c)
			s.emit(EventContractExpired, c.PosterID, ActorSystem, map[string]any{"contract_id": c.ID})
		case contracts.StatusActive:
			c.Status = contracts.StatusFailed
			s.refundPoster(c)
			if acceptor, ok := s.store.Player(c.AcceptedBy); ok {
				acceptor.AdjustReputation(-c.RewardReputation)
				s.store.PutPlayer(acceptor)
			}
			s.store.PutContract(c)
			s.emit(EventContractFailed, c.AcceptedBy, ActorSystem, map[string]any{"contract_id": c.ID})
		}
	}
	return nil
}

func (s *Simulation) refundPoster(c *contracts.Contract) {
	if poster, ok := s.store.Player(c.PosterID); ok {
		poster.Credits += c.Escrow()
		s.store.PutPlayer(poster)
	}
}
