// Package rapgateway implements rap.Gateway against a relational database
// via gorm, calling the RAP-creation stored procedure and recording
// emitted Return Batches the way the reference implementation's OTL-based
// RAPFile::CreateRAPFile did against its stored procedure
// BILLING.TAP3.CreateRAPFileByTAPLoader.
package rapgateway

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Olernov/TAP3Loader/internal/rap"
)

// Gateway is a gorm-backed rap.Gateway implementation.
type Gateway struct {
	DB *gorm.DB
}

// New wraps an already-connected *gorm.DB.
func New(db *gorm.DB) *Gateway {
	return &Gateway{DB: db}
}

// storedProcRow mirrors the stored procedure's OUT parameters.
type storedProcRow struct {
	Filename         string
	RapSequenceNum   string
	MobileNetworkID  int64
	RoamingHubID     int64
	RoamingHubName   string
	Timestamp        string
	UtcOffset        string
	TapVersion       int
	TapRelease       int
	RapVersion       int
	RapRelease       int
	TapDecimalPlaces int
	RapFileID        int64
}

// AllocateReturnBatch calls the RAP-creation stored procedure. isTest maps
// to the procedure's test-data flag (§4.3 step 1).
func (g *Gateway) AllocateReturnBatch(ctx context.Context, recipientTAPCode string, isTest bool, tapAvailableTimestamp string) (rap.AllocatedIdentity, error) {
	testFlag := 0
	if isTest {
		testFlag = 1
	}

	var row storedProcRow
	err := g.DB.WithContext(ctx).Raw(
		`SELECT * FROM BILLING.TAP3.CreateRAPFileByTAPLoader(?, ?, TO_TIMESTAMP(?, 'YYYYMMDDHH24MISS'))`,
		recipientTAPCode, testFlag, tapAvailableTimestamp,
	).Scan(&row).Error
	if err != nil {
		return rap.AllocatedIdentity{}, fmt.Errorf("rapgateway: CreateRAPFileByTAPLoader failed: %w", err)
	}

	return rap.AllocatedIdentity{
		Filename:          row.Filename,
		RapSequenceNum:    row.RapSequenceNum,
		MobileNetworkID:   row.MobileNetworkID,
		RoamingHubID:      row.RoamingHubID,
		RoamingHubName:    row.RoamingHubName,
		CreationTimestamp: row.Timestamp,
		UtcOffset:         row.UtcOffset,
		TapVersion:        row.TapVersion,
		TapRelease:        row.TapRelease,
		RapVersion:        row.RapVersion,
		RapRelease:        row.RapRelease,
		TapDecimalPlaces:  row.TapDecimalPlaces,
		RapFileID:         row.RapFileID,
	}, nil
}

// LoadReturnBatch records the emitted Return Batch against RAP_File, the
// way the reference implementation's LoadReturnBatchToDB did.
func (g *Gateway) LoadReturnBatch(ctx context.Context, rapFileID int64, rapFilename string, status rap.FileStatus) error {
	err := g.DB.WithContext(ctx).Exec(
		`UPDATE RAP_File SET status = ?, filename = ? WHERE rap_file_id = ?`,
		int(status), rapFilename, rapFileID,
	).Error
	if err != nil {
		return fmt.Errorf("rapgateway: LoadReturnBatch failed: %w", err)
	}
	return nil
}
