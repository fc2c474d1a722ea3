package tapvalidate

import (
	"context"
	"testing"

	"github.com/Olernov/TAP3Loader/internal/asn1meta"
	"github.com/Olernov/TAP3Loader/internal/obslog"
	"github.com/Olernov/TAP3Loader/internal/rap"
	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}

var _ obslog.Logger = discardLogger{}

type fakeGateway struct {
	nextID    int64
	lastRecip string
}

func (g *fakeGateway) AllocateReturnBatch(ctx context.Context, recipientTAPCode string, isTest bool, tapAvailableTimestamp string) (rap.AllocatedIdentity, error) {
	g.nextID++
	g.lastRecip = recipientTAPCode
	return rap.AllocatedIdentity{
		Filename:       "rap.bin",
		RapSequenceNum: "00001",
		RapFileID:      g.nextID,
	}, nil
}

func (g *fakeGateway) LoadReturnBatch(ctx context.Context, rapFileID int64, rapFilename string, status rap.FileStatus) error {
	return nil
}

type noopUploader struct{}

func (noopUploader) Upload(ctx context.Context, localPath, filename string, setting rap.HubSetting) error {
	return nil
}

type noopDER struct{}

func (noopDER) Marshal(rb *tapmodel.ReturnBatch) ([]byte, error) { return []byte{}, nil }

// capturingDER records the last Return Batch passed to Marshal so tests can
// assert on its shape without reaching into the builder's private state.
type capturingDER struct {
	last *tapmodel.ReturnBatch
}

func (d *capturingDER) Marshal(rb *tapmodel.ReturnBatch) ([]byte, error) {
	d.last = rb
	return []byte{}, nil
}

func newTestValidator(t *testing.T, der rap.DER) *Validator {
	t.Helper()
	builder := &rap.Builder{
		Gateway:   &fakeGateway{},
		Uploader:  noopUploader{},
		DER:       der,
		Hubs:      map[string]rap.HubSetting{},
		Logger:    discardLogger{},
		OutputDir: t.TempDir(),
	}
	return NewValidator(builder, nil, discardLogger{})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func i64Ptr(i int64) *int64   { return &i }

func baseBatchControlInfo() *tapmodel.BatchControlInfo {
	return &tapmodel.BatchControlInfo{
		Sender:                     strPtr("OP1"),
		Recipient:                  strPtr("OP2"),
		FileSequenceNumber:         strPtr("00042"),
		FileAvailableTimeStamp:     &tapmodel.TimestampWithOffset{LocalTimeStamp: "20260101120000", UtcTimeOffset: "+0000"},
		TransferCutOffTimeStamp:    &tapmodel.TimestampWithOffset{LocalTimeStamp: "20260101000000", UtcTimeOffset: "+0000"},
		SpecificationVersionNumber: intPtr(3),
	}
}

func validAccountingInfo() *tapmodel.AccountingInfo {
	return &tapmodel.AccountingInfo{
		LocalCurrency:    strPtr("EUR"),
		TapDecimalPlaces: intPtr(2),
	}
}

func validNetworkInfo() *tapmodel.NetworkInfo {
	return &tapmodel.NetworkInfo{
		UtcTimeOffsetInfo: []tapmodel.UtcTimeOffsetInfo{{UtcTimeOffsetCode: strPtr("1")}},
		RecEntityInfo:     []tapmodel.RecEntityInfo{{RecEntityCode: strPtr("1")}},
	}
}

func validAuditControlInfo(callCount int) *tapmodel.AuditControlInfo {
	return &tapmodel.AuditControlInfo{
		TotalCharge:           i64Ptr(0),
		TotalTaxValue:         i64Ptr(0),
		TotalDiscountValue:    i64Ptr(0),
		CallEventDetailsCount: intPtr(callCount),
	}
}

// Scenario 1: missing accounting_info.
func TestScenario1MissingAccountingInfo(t *testing.T) {
	der := &capturingDER{}
	v := newTestValidator(t, der)

	tb := &tapmodel.TransferBatch{
		BatchControlInfo: baseBatchControlInfo(),
		NetworkInfo:      validNetworkInfo(),
		AuditControlInfo: validAuditControlInfo(0),
	}

	result := v.Validate(context.Background(), tb)
	if result != FatalError {
		t.Fatalf("expected FatalError, got %s", result)
	}

	rb := der.last
	if rb == nil {
		t.Fatal("expected a Return Batch to have been encoded")
	}
	if rb.RapBatchControlInfo.Sender != "OP2" || rb.RapBatchControlInfo.Recipient != "OP1" {
		t.Fatalf("expected sender/recipient swap, got sender=%s recipient=%s", rb.RapBatchControlInfo.Sender, rb.RapBatchControlInfo.Recipient)
	}
	if len(rb.ReturnDetails) != 1 {
		t.Fatalf("expected exactly one Return Detail, got %d", len(rb.ReturnDetails))
	}
	if rb.RapAuditControlInfo.ReturnDetailsCount != 1 || rb.RapAuditControlInfo.TotalSevereReturnValue != 0 {
		t.Fatalf("expected ReturnDetailsCount=1 and TotalSevereReturnValue=0, got %+v", rb.RapAuditControlInfo)
	}

	fatal, ok := rb.ReturnDetails[0].(*tapmodel.ReturnDetailFatal)
	if !ok {
		t.Fatalf("expected *tapmodel.ReturnDetailFatal, got %T", rb.ReturnDetails[0])
	}
	tbErr, ok := fatal.Detail.(*tapmodel.TransferBatchError)
	if !ok {
		t.Fatalf("expected *tapmodel.TransferBatchError, got %T", fatal.Detail)
	}
	if len(tbErr.ErrorDetail) != 1 {
		t.Fatalf("expected exactly one Error Detail, got %d", len(tbErr.ErrorDetail))
	}
	if tbErr.ErrorDetail[0].ErrorCode != TransferBatchAccountingInfoMissing {
		t.Fatalf("expected code %d, got %d", TransferBatchAccountingInfoMissing, tbErr.ErrorDetail[0].ErrorCode)
	}
	wantCtx := []tapmodel.ErrorContextEntry{{PathItemID: asn1meta.TagNumber(asn1meta.TransferBatch), ItemLevel: 1}}
	if !contextEqual(tbErr.ErrorDetail[0].ErrorContext, wantCtx) {
		t.Fatalf("expected Error Context %+v, got %+v", wantCtx, tbErr.ErrorDetail[0].ErrorContext)
	}
}

// Scenario 2: a tax record present but accounting_info.taxation absent.
func TestScenario2TaxationMissingButTaxesPresent(t *testing.T) {
	der := &capturingDER{}
	v := newTestValidator(t, der)

	tb := &tapmodel.TransferBatch{
		BatchControlInfo: baseBatchControlInfo(),
		AccountingInfo:   validAccountingInfo(),
		NetworkInfo:      validNetworkInfo(),
		AuditControlInfo: validAuditControlInfo(1),
		CallEventDetails: []tapmodel.CallEventDetail{
			&tapmodel.MobileOriginatedCall{
				BasicServiceUsedList: []tapmodel.BasicServiceUsed{
					{ChargeInformationList: []tapmodel.ChargeInformation{
						{TaxInformation: []tapmodel.TaxInformation{{TaxCode: intPtr(1)}}},
					}},
				},
			},
		},
	}

	result := v.Validate(context.Background(), tb)
	if result != FatalError {
		t.Fatalf("expected FatalError, got %s", result)
	}

	fatal := der.last.ReturnDetails[0].(*tapmodel.ReturnDetailFatal)
	aiErr := fatal.Detail.(*tapmodel.AccountingInfoError)
	if aiErr.ErrorDetail[0].ErrorCode != AccountingTaxationMissing {
		t.Fatalf("expected code %d, got %d", AccountingTaxationMissing, aiErr.ErrorDetail[0].ErrorCode)
	}
	wantCtx := []tapmodel.ErrorContextEntry{
		{PathItemID: asn1meta.TagNumber(asn1meta.TransferBatch), ItemLevel: 1},
		{PathItemID: asn1meta.TagNumber(asn1meta.AccountingInfo), ItemLevel: 2},
	}
	if !contextEqual(aiErr.ErrorDetail[0].ErrorContext, wantCtx) {
		t.Fatalf("expected Error Context %+v, got %+v", wantCtx, aiErr.ErrorDetail[0].ErrorContext)
	}
}

// Scenario 3: duplicate exchange rate code in the currency-conversion table.
func TestScenario3DuplicateExchangeRateCode(t *testing.T) {
	der := &capturingDER{}
	v := newTestValidator(t, der)

	ai := validAccountingInfo()
	ai.CurrencyConversionInfo = []tapmodel.CurrencyConversion{
		{ExchangeRateCode: intPtr(1), NumberOfDecimalPlaces: intPtr(2), ExchangeRate: i64Ptr(100)},
		{ExchangeRateCode: intPtr(1), NumberOfDecimalPlaces: intPtr(2), ExchangeRate: i64Ptr(200)},
	}
	tb := &tapmodel.TransferBatch{
		BatchControlInfo: baseBatchControlInfo(),
		AccountingInfo:   ai,
		NetworkInfo:      validNetworkInfo(),
		AuditControlInfo: validAuditControlInfo(0),
	}

	result := v.Validate(context.Background(), tb)
	if result != FatalError {
		t.Fatalf("expected FatalError, got %s", result)
	}

	fatal := der.last.ReturnDetails[0].(*tapmodel.ReturnDetailFatal)
	aiErr := fatal.Detail.(*tapmodel.AccountingInfoError)
	if aiErr.ErrorDetail[0].ErrorCode != CurrencyConversionExRateCodeDuplication {
		t.Fatalf("expected code %d, got %d", CurrencyConversionExRateCodeDuplication, aiErr.ErrorDetail[0].ErrorCode)
	}
	ctx := aiErr.ErrorDetail[0].ErrorContext
	if len(ctx) != 3 {
		t.Fatalf("expected Error Context depth 3, got %d", len(ctx))
	}
	if ctx[2].PathItemID != asn1meta.TagNumber(asn1meta.CurrencyConversionList) {
		t.Fatalf("expected final path item to be CurrencyConversionList's tag, got %d", ctx[2].PathItemID)
	}
}

// Scenario 4: call_event_details_count mismatch.
func TestScenario4CallCountMismatch(t *testing.T) {
	der := &capturingDER{}
	v := newTestValidator(t, der)

	tb := &tapmodel.TransferBatch{
		BatchControlInfo: baseBatchControlInfo(),
		AccountingInfo:   validAccountingInfo(),
		NetworkInfo:      validNetworkInfo(),
		AuditControlInfo: validAuditControlInfo(10),
		CallEventDetails: make([]tapmodel.CallEventDetail, 9),
	}
	for i := range tb.CallEventDetails {
		tb.CallEventDetails[i] = &tapmodel.MobileOriginatedCall{}
	}

	result := v.Validate(context.Background(), tb)
	if result != FatalError {
		t.Fatalf("expected FatalError, got %s", result)
	}

	fatal := der.last.ReturnDetails[0].(*tapmodel.ReturnDetailFatal)
	acErr := fatal.Detail.(*tapmodel.AuditControlInfoError)
	if acErr.ErrorDetail[0].ErrorCode != CallCountMismatch {
		t.Fatalf("expected code %d, got %d", CallCountMismatch, acErr.ErrorDetail[0].ErrorCode)
	}
	ctx := acErr.ErrorDetail[0].ErrorContext
	if len(ctx) != 3 || ctx[2].PathItemID != asn1meta.TagNumber(asn1meta.CallEventDetailsCount) {
		t.Fatalf("expected Error Context depth 3 ending in CallEventDetailsCount's tag, got %+v", ctx)
	}
}

// Scenario 5: valid Notification.
func TestScenario5ValidNotification(t *testing.T) {
	v := newTestValidator(t, noopDER{})
	n := &tapmodel.Notification{
		Sender:             strPtr("OP1"),
		Recipient:          strPtr("OP2"),
		FileSequenceNumber: strPtr("00042"),
	}
	if result := v.Validate(context.Background(), n); result != TapValid {
		t.Fatalf("expected TapValid, got %s", result)
	}
	if v.RapFileID() != 0 {
		t.Fatalf("expected no RAP file to have been allocated, got id %d", v.RapFileID())
	}
}

// Scenario 6: Transfer Batch missing sender.
func TestScenario6MissingSender(t *testing.T) {
	v := newTestValidator(t, noopDER{})
	bci := baseBatchControlInfo()
	bci.Sender = nil
	tb := &tapmodel.TransferBatch{BatchControlInfo: bci}

	result := v.Validate(context.Background(), tb)
	if result != ValidationImpossible {
		t.Fatalf("expected ValidationImpossible, got %s", result)
	}
	if v.RapFileID() != 0 {
		t.Fatalf("expected rap_file_id to remain the sentinel 0, got %d", v.RapFileID())
	}
}

// A fully valid Transfer Batch yields TapValid and never touches the
// builder (§8 invariant 1).
func TestFullyValidTransferBatch(t *testing.T) {
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
	if v.RapFileID() != 0 {
		t.Fatalf("expected no RAP file to have been allocated, got id %d", v.RapFileID())
	}
}

// Ordering: the four top-level group existence checks run before any
// descent into Batch Control Info's own fields (§4.4). A batch missing both
// Accounting Info and a Batch Control Info sub-field must report the
// top-level existence fault, not the sub-field one.
func TestOrderingTopLevelExistenceBeforeBatchControlFields(t *testing.T) {
	der := &capturingDER{}
	v := newTestValidator(t, der)

	bci := baseBatchControlInfo()
	bci.TransferCutOffTimeStamp = nil // would fault inside validateBatchControlInfo
	tb := &tapmodel.TransferBatch{
		BatchControlInfo: bci,
		// AccountingInfo deliberately left nil: the top-level existence
		// check for it must win over the Batch Control Info field check.
	}

	result := v.Validate(context.Background(), tb)
	if result != FatalError {
		t.Fatalf("expected FatalError, got %s", result)
	}
	fatal := der.last.ReturnDetails[0].(*tapmodel.ReturnDetailFatal)
	tbErr, ok := fatal.Detail.(*tapmodel.TransferBatchError)
	if !ok {
		t.Fatalf("expected the top-level Accounting Info existence check to fire first, got %T", fatal.Detail)
	}
	if tbErr.ErrorDetail[0].ErrorCode != TransferBatchAccountingInfoMissing {
		t.Fatalf("expected code %d, got %d", TransferBatchAccountingInfoMissing, tbErr.ErrorDetail[0].ErrorCode)
	}
}

// Ordering: once all four top-level groups are present, Batch Control
// Info's own fields are checked before Accounting Info is descended into
// (§4.4's fixed check order).
func TestOrderingBatchControlFieldsBeforeAccountingDescent(t *testing.T) {
	der := &capturingDER{}
	v := newTestValidator(t, der)

	bci := baseBatchControlInfo()
	bci.TransferCutOffTimeStamp = nil
	ai := validAccountingInfo()
	ai.LocalCurrency = nil // would fault inside validateAccountingInfo
	tb := &tapmodel.TransferBatch{
		BatchControlInfo: bci,
		AccountingInfo:   ai,
		NetworkInfo:      validNetworkInfo(),
		AuditControlInfo: validAuditControlInfo(0),
	}

	result := v.Validate(context.Background(), tb)
	if result != FatalError {
		t.Fatalf("expected FatalError, got %s", result)
	}
	fatal := der.last.ReturnDetails[0].(*tapmodel.ReturnDetailFatal)
	bcErr, ok := fatal.Detail.(*tapmodel.BatchControlError)
	if !ok {
		t.Fatalf("expected the Batch Control Info fault to fire before the Accounting Info descent, got %T", fatal.Detail)
	}
	if bcErr.ErrorDetail[0].ErrorCode != BatchControlTransferCutoffMissing {
		t.Fatalf("expected code %d, got %d", BatchControlTransferCutoffMissing, bcErr.ErrorDetail[0].ErrorCode)
	}
}

func contextEqual(a, b []tapmodel.ErrorContextEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
