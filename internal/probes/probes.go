// Package probes implements the Content probes (C2): three side-effect-free
// predicates over a Transfer Batch's call-event tree.
package probes

import (
	"math"

	"github.com/Olernov/TAP3Loader/internal/codec"
	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// chargeInfoLists returns the charge-information lists exposed by a single
// call-event record, regardless of its variant. This is the shared
// exhaustive extractor §9 calls for, replacing three near-identical walks
// with one switch used by all three probes below.
func chargeInfoLists(ced tapmodel.CallEventDetail) [][]tapmodel.ChargeInformation {
	switch call := ced.(type) {
	case *tapmodel.MobileOriginatedCall:
		lists := make([][]tapmodel.ChargeInformation, 0, len(call.BasicServiceUsedList))
		for _, bsu := range call.BasicServiceUsedList {
			lists = append(lists, bsu.ChargeInformationList)
		}
		return lists
	case *tapmodel.MobileTerminatedCall:
		lists := make([][]tapmodel.ChargeInformation, 0, len(call.BasicServiceUsedList))
		for _, bsu := range call.BasicServiceUsedList {
			lists = append(lists, bsu.ChargeInformationList)
		}
		return lists
	case *tapmodel.GprsCall:
		if call.GprsServiceUsed == nil {
			return nil
		}
		return [][]tapmodel.ChargeInformation{call.GprsServiceUsed.ChargeInformationList}
	default:
		return nil
	}
}

// walkChargeInfo calls witness for every ChargeInformation entry reachable
// from tb's call-event tree, stopping as soon as witness returns true.
func walkChargeInfo(tb *tapmodel.TransferBatch, witness func(tapmodel.ChargeInformation) bool) bool {
	for _, ced := range tb.CallEventDetails {
		for _, list := range chargeInfoLists(ced) {
			for _, ci := range list {
				if witness(ci) {
					return true
				}
			}
		}
	}
	return false
}

// ContainsTaxes reports whether any charge-information entry in the batch
// carries tax information.
func ContainsTaxes(tb *tapmodel.TransferBatch) bool {
	return walkChargeInfo(tb, func(ci tapmodel.ChargeInformation) bool {
		return len(ci.TaxInformation) > 0
	})
}

// ContainsDiscounts reports whether any charge-information entry in the
// batch carries discount information.
func ContainsDiscounts(tb *tapmodel.TransferBatch) bool {
	return walkChargeInfo(tb, func(ci tapmodel.ChargeInformation) bool {
		return len(ci.DiscountInformation) > 0
	})
}

// ContainsPositiveCharges reports whether any charge-detail entry in the
// batch decodes to a strictly positive monetary value, using the batch-wide
// tap_decimal_places exponent.
func ContainsPositiveCharges(tb *tapmodel.TransferBatch) bool {
	if tb.AccountingInfo == nil || tb.AccountingInfo.TapDecimalPlaces == nil {
		return false
	}
	scale := math.Pow10(*tb.AccountingInfo.TapDecimalPlaces)

	return walkChargeInfo(tb, func(ci tapmodel.ChargeInformation) bool {
		for _, cd := range ci.ChargeDetailList {
			raw, err := codec.DecodeOctetsAsInt64(cd.Charge)
			if err != nil {
				continue
			}
			if float64(raw)/scale > 0 {
				return true
			}
		}
		return false
	})
}
