package tapvalidate

import (
	"context"

	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// checkAddressee is the wrong-addressee filtering stub (§9 design note:
// "Wrong-addressee filtering is a stub"). It should compare recipient
// against the configured local-network identifiers and report false when
// the file isn't addressed to this network; today it always reports true,
// preserving the acknowledged gap rather than silently completing it.
// TODO: compare recipient against LocalNetworkCodes and return false when unmatched.
func checkAddressee(recipient *string, localCodes []string) bool {
	_ = recipient
	_ = localCodes
	return true
}

// Validate inspects the Data Interchange variant tag and routes to
// Transfer Batch or Notification validation (C5). An unrecognised variant
// yields ValidationImpossible.
func (v *Validator) Validate(ctx context.Context, di tapmodel.DataInterchange) Result {
	switch value := di.(type) {
	case *tapmodel.TransferBatch:
		var recipient *string
		if value.BatchControlInfo != nil {
			recipient = value.BatchControlInfo.Recipient
		}
		if !checkAddressee(recipient, v.LocalNetworkCodes) {
			return WrongAddressee
		}
		return v.validateTransferBatch(ctx, value)
	case *tapmodel.Notification:
		if !checkAddressee(value.Recipient, v.LocalNetworkCodes) {
			return WrongAddressee
		}
		return v.validateNotification(value)
	default:
		return ValidationImpossible
	}
}
