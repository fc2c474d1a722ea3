package tapvalidate

import (
	"context"
	"testing"

	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// unrecognizedDataInterchange exercises the default case of Validate's type
// switch: a variant that satisfies tapmodel.DataInterchange but is neither
// *TransferBatch nor *Notification. tapmodel.DataInterchange is sealed by an
// unexported method, so the type satisfies it by embedding the interface,
// which promotes that method.
type unrecognizedDataInterchange struct {
	tapmodel.DataInterchange
}

func TestValidateRoutesTransferBatch(t *testing.T) {
	v := newTestValidator(t, noopDER{})
	tb := &tapmodel.TransferBatch{
		BatchControlInfo: baseBatchControlInfo(),
		AccountingInfo:   validAccountingInfo(),
		NetworkInfo:      validNetworkInfo(),
		AuditControlInfo: validAuditControlInfo(0),
	}
	if result := v.Validate(context.Background(), tb); result != TapValid {
		t.Fatalf("expected TapValid, got %s", result)
	}
}

func TestValidateRoutesNotification(t *testing.T) {
	v := newTestValidator(t, noopDER{})
	n := &tapmodel.Notification{
		Sender:             strPtr("OP1"),
		Recipient:          strPtr("OP2"),
		FileSequenceNumber: strPtr("00042"),
	}
	if result := v.Validate(context.Background(), n); result != TapValid {
		t.Fatalf("expected TapValid, got %s", result)
	}
}

func TestValidateUnrecognizedVariantIsValidationImpossible(t *testing.T) {
	v := newTestValidator(t, noopDER{})
	if result := v.Validate(context.Background(), &unrecognizedDataInterchange{}); result != ValidationImpossible {
		t.Fatalf("expected ValidationImpossible for an unrecognised Data Interchange variant, got %s", result)
	}
}

// checkAddressee is an acknowledged stub (§9): it always reports true today,
// so Validate never actually returns WrongAddressee. This test locks in the
// current stub behavior so a silent behavior change gets caught.
func TestCheckAddresseeStubAlwaysReturnsTrue(t *testing.T) {
	if !checkAddressee(nil, nil) {
		t.Fatal("expected the wrong-addressee stub to always report true")
	}
	recipient := "OP9"
	if !checkAddressee(&recipient, []string{"OP1", "OP2"}) {
		t.Fatal("expected the wrong-addressee stub to always report true even when recipient isn't a local code")
	}
}
