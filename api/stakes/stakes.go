// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes exposes the staking engine's boundary operations over REST.
// The surrounding deployment owns custody and authorization: deposits are
// recorded after value has been received, withdrawal payouts are settled by
// the caller, and the rate endpoint must sit behind a privileged boundary.
package stakes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/stakehive/stakehive/api/restutil"
	"github.com/stakehive/stakehive/stakehive"
	"github.com/stakehive/stakehive/staking"
	"github.com/stakehive/stakehive/staking/reverts"
)

type Stakes struct {
	engine *staking.Engine
	clock  clockwork.Clock
}

func New(engine *staking.Engine, clock clockwork.Clock) *Stakes {
	return &Stakes{
		engine,
		clock,
	}
}

func (s *Stakes) now() uint64 {
	return uint64(s.clock.Now().Unix())
}

// wrapRevert maps precondition failures onto 400, keeping infrastructure
// errors as 500.
func wrapRevert(err error) error {
	if reverts.IsRevertErr(err) {
		return restutil.BadRequest(err)
	}
	return err
}

func (s *Stakes) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	addr, err := stakehive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	var body DepositRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.engine.Deposit(*addr, body.Amount.Int(), s.now()); err != nil {
		return wrapRevert(err)
	}
	return restutil.WriteJSON(w, s.stake(*addr))
}

func (s *Stakes) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, err := stakehive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	payout, err := s.engine.Withdraw(*addr, s.now())
	if err != nil {
		return wrapRevert(err)
	}
	return restutil.WriteJSON(w, &WithdrawalResponse{
		Participant: *addr,
		Principal:   amount(payout.Principal),
		Reward:      amount(payout.Reward),
	})
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := stakehive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return restutil.WriteJSON(w, s.stake(*addr))
}

func (s *Stakes) stake(addr stakehive.Address) *StakeResponse {
	now := s.now()
	res := &StakeResponse{
		Participant:   addr,
		Principal:     amount(nil),
		AccruedReward: amount(nil),
		PendingReward: amount(s.engine.PendingReward(addr, now)),
	}
	if rec := s.engine.Stake(addr); rec != nil {
		res.Principal = amount(rec.Principal)
		res.AccruedReward = amount(rec.AccruedReward)
		res.LastSettledAt = rec.LastSettledAt
	}
	return res
}

func (s *Stakes) handleParticipants(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &ParticipantsResponse{
		Count: s.engine.ParticipantCount(),
	})
}

func (s *Stakes) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	res, err := s.engine.DistributeBatch(s.now(), body.Limit)
	if err != nil {
		if errors.Is(err, staking.ErrCooldownActive) {
			return restutil.Conflict(err)
		}
		return wrapRevert(err)
	}
	return restutil.WriteJSON(w, &DistributionResponse{
		Distributed: amount(res.Distributed),
		Settled:     res.Settled,
		Remaining:   res.Remaining,
		Done:        res.Done,
	})
}

func (s *Stakes) handleGetDistribution(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &DistributionStatusResponse{
		LastDistributionAt: s.engine.LastDistribution(),
		Interval:           s.engine.DistributionInterval(),
		InProgress:         s.engine.DistributionInProgress(),
	})
}

func (s *Stakes) handleGetRate(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &RateResponse{Rate: amount(s.engine.Rate())})
}

func (s *Stakes) handleSetRate(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	old := s.engine.Rate()
	if err := s.engine.SetRate(body.Rate.Int(), s.now()); err != nil {
		return wrapRevert(err)
	}
	return restutil.WriteJSON(w, &RateUpdateResponse{
		OldRate: amount(old),
		Rate:    body.Rate,
	})
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stakes/{address}").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stakes/{address}/deposits").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleDeposit))
	sub.Path("/stakes/{address}/withdrawals").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/participants").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleParticipants))
	sub.Path("/distributions").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleDistribute))
	sub.Path("/distributions").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetDistribution))
	sub.Path("/rate").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetRate))
	sub.Path("/rate").
		Methods(http.MethodPut).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSetRate))
}
