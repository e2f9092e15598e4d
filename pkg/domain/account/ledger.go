package account

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Effect is the signed contribution of t to its account balance.
// Only valide deposits and withdrawals count; transfers carry no
// counterpart account and are left out of the ledger.
func Effect(t *Transaction) decimal.Decimal {
	if t == nil || t.Status != Valide {
		return decimal.Zero
	}
	switch t.Type {
	case Depot:
		return t.Amount
	case Retrait:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// Balance derives an account balance from its transactions.
func Balance(txs []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(Effect(t))
	}
	return total.Round(2)
}

// Delta returns the per-account adjustment needed to move a cached
// balance from before to after. before is nil for a creation and after is
// nil for a deletion. The pre-update values of before are reverted, so a
// change of account, type, amount or status is compensated exactly.
func Delta(before, after *Transaction) map[uuid.UUID]decimal.Decimal {
	out := map[uuid.UUID]decimal.Decimal{}
	if before != nil {
		out[before.AccountID] = out[before.AccountID].Sub(Effect(before))
	}
	if after != nil {
		out[after.AccountID] = out[after.AccountID].Add(Effect(after))
	}
	for id, d := range out {
		if d.IsZero() {
			delete(out, id)
		}
	}
	return out
}
