// Package jobdao stores synthesis job history in DynamoDB.
package jobdao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/savaki/ddb/v2"
	"github.com/savaki/gox/slicex"
)

const latest = "latest"

// PK represents a DynamoDB partition key in format {locale}/{env}
// Example: hi-IN/dev
type PK string

// NewPK creates a new partition key from locale and env
func NewPK(locale, env string) PK {
	return PK(fmt.Sprintf("%s/%s", locale, env))
}

// ParsePK parses a partition key into its locale and env components
func ParsePK(pk PK) (locale, env string, err error) {
	s := string(pk)
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid PK format: %s, expected {locale}/{env}", s)
	}
	return parts[0], parts[1], nil
}

// String returns the string representation of the partition key
func (pk PK) String() string {
	return string(pk)
}

// ID represents a job ID in format {locale}/{env}:{ksuid}
// Example: hi-IN/dev:2HFj3kLmNoPqRsTuVwXy
type ID string

func (id ID) String() string {
	return string(id)
}

// ParseID parses a job ID into its partition key (pk) and sort key (sk) components
func ParseID(id ID) (pk PK, sk string, err error) {
	s := string(id)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid job ID format: %s, expected {locale}/{env}:{ksuid}", s)
	}
	return PK(parts[0]), parts[1], nil
}

// NewID constructs an ID from partition key and sort key
func NewID(pk PK, sk string) ID {
	return ID(fmt.Sprintf("%s:%s", pk, sk))
}

// JobStatus represents the current status of a synthesis job
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusSuccess    JobStatus = "SUCCESS"
	JobStatusFailed     JobStatus = "FAILED"
)

// Record represents a synthesis job record in DynamoDB
type Record struct {
	PK              PK        `ddb:"hash" dynamodbav:"pk"`  // {locale}/{env} - DynamoDB partition key
	SK              string    `ddb:"range" dynamodbav:"sk"` // KSUID - DynamoDB sort key
	ID              ID        `dynamodbav:"id,omitempty"`   // ID is only used for latest entries
	Locale          string    `dynamodbav:"locale,omitempty"`
	Env             string    `dynamodbav:"env,omitempty"`
	SourceFile      string    `dynamodbav:"source_file,omitempty"` // original upload filename
	InputURI        string    `dynamodbav:"input_uri,omitempty"`   // archived CSV
	EnglishAudioURI string    `dynamodbav:"english_audio_uri,omitempty"`
	AudioURI        string    `dynamodbav:"audio_uri,omitempty"` // locale-language audio
	Status          JobStatus `dynamodbav:"status,omitempty"`
	ErrorMsg        *string   `dynamodbav:"error_msg,omitempty"`
	CreatedAt       int64     `dynamodbav:"created_at,omitempty"`
	FinishedAt      *int64    `dynamodbav:"finished_at,omitempty"`
	UpdatedAt       int64     `dynamodbav:"updated_at,omitempty"`
}

// GetID returns the full job ID in format: {locale}/{env}:{ksuid}
func (r *Record) GetID() ID {
	if r.ID != "" {
		return r.ID
	}
	return NewID(r.PK, r.SK)
}

// CreateInput contains the fields needed to create a new job record
type CreateInput struct {
	Locale     string // requested locale, e.g. hi-IN
	Env        string // environment (dev, staging, prod)
	SK         string // KSUID sort key
	SourceFile string // original upload filename
	InputURI   string // archived CSV location
}

// UpdateInput contains the fields that can be updated on a job record
type UpdateInput struct {
	PK              PK         // Partition key (locale/env)
	SK              string     // Sort key (KSUID)
	Status          *JobStatus // New status
	ErrorMsg        *string    // Error message (optional)
	EnglishAudioURI *string    // English audio location (optional)
	AudioURI        *string    // Locale audio location (optional)
}

// DAO provides data access operations for job records
type DAO struct {
	db    *ddb.DDB
	table *ddb.Table
}

// New creates a new DAO instance
func New(client *dynamodb.Client, tableName string) *DAO {
	db := ddb.New(client)
	table := db.MustTable(tableName, &Record{})
	return &DAO{
		db:    db,
		table: table,
	}
}

// Create creates a new job record with initial status PENDING
func (d *DAO) Create(ctx context.Context, input CreateInput) (Record, error) {
	pk := NewPK(input.Locale, input.Env)
	now := time.Now().Unix()

	record := Record{
		PK:         pk,
		SK:         input.SK,
		Locale:     input.Locale,
		Env:        input.Env,
		SourceFile: input.SourceFile,
		InputURI:   input.InputURI,
		Status:     JobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := d.table.Put(&record).RunWithContext(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create job record: %w", err)
	}

	return record, nil
}

// Find retrieves a job record by ID
// Returns an error if not found or if there's a database error
func (d *DAO) Find(ctx context.Context, id ID) (Record, error) {
	pk, sk, err := ParseID(id)
	if err != nil {
		return Record{}, err
	}

	var record Record

	err = d.table.Get(pk.String()).
		Range(sk).
		ConsistentRead(true).
		ScanWithContext(ctx, &record)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "item not found") || strings.Contains(errStr, "ItemNotFound") {
			return Record{}, fmt.Errorf("job record not found: %s", id)
		}
		return Record{}, fmt.Errorf("failed to find job record: %w", err)
	}

	// If all fields are empty, item doesn't exist
	if record.PK == "" && record.SK == "" {
		return Record{}, fmt.Errorf("job record not found: %s", id)
	}

	return record, nil
}

// Delete removes a job record by ID
func (d *DAO) Delete(ctx context.Context, id ID) error {
	pk, sk, err := ParseID(id)
	if err != nil {
		return err
	}

	err = d.table.Delete(pk).
		Range(sk).
		RunWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete job record: %w", err)
	}

	return nil
}

// UpdateStatus updates the status of a job record and creates/updates a "latest" magic record
// The latest record has pk=latest/{env} and sk={original pk} to enable efficient queries for
// the most recent job per locale
func (d *DAO) UpdateStatus(ctx context.Context, input UpdateInput) error {
	if input.Status == nil {
		return fmt.Errorf("status is required")
	}

	now := time.Now().Unix()

	update := d.table.Update(input.PK).
		Range(input.SK).
		Set("#Status = ?", string(*input.Status)).
		Set("#UpdatedAt = ?", now)

	// Set finishedAt for terminal states (SUCCESS or FAILED)
	if *input.Status == JobStatusSuccess || *input.Status == JobStatusFailed {
		update = update.Set("#FinishedAt = ?", now)
	}

	if input.ErrorMsg != nil {
		update = update.Set("#ErrorMsg = ?", *input.ErrorMsg)
	}
	if input.EnglishAudioURI != nil {
		update = update.Set("#EnglishAudioURI = ?", *input.EnglishAudioURI)
	}
	if input.AudioURI != nil {
		update = update.Set("#AudioURI = ?", *input.AudioURI)
	}

	// Create/update the "latest" magic record
	locale, env, err := ParsePK(input.PK)
	if err != nil {
		return fmt.Errorf("failed to parse PK: %w", err)
	}

	latestRecord := &Record{
		PK:        NewPK(latest, env),
		SK:        input.PK.String(), // SK in latest record = PK from original (locale/env identifier)
		ID:        NewID(input.PK, input.SK),
		Locale:    locale,
		Env:       env,
		Status:    *input.Status,
		UpdatedAt: now,
	}

	// Write both the update and the latest record in a transaction
	put := d.table.Put(latestRecord)

	if _, err := d.db.TransactWriteItemsWithContext(ctx, update, put); err != nil {
		return err
	}

	return nil
}

// Query returns all jobs for a given locale/env partition key
func (d *DAO) Query(ctx context.Context, pk PK) ([]Record, error) {
	var records []Record

	err := d.table.Query("#PK = ?", pk.String()).
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}

	return records, nil
}

// QueryByLocaleEnv returns all jobs for a given locale and environment
func (d *DAO) QueryByLocaleEnv(ctx context.Context, locale, env string) ([]Record, error) {
	pk := NewPK(locale, env)
	return d.Query(ctx, pk)
}

// QueryLatest returns the most recent job for each locale in the given environment
// It queries the "latest" magic records where pk=latest/{env} and sk={locale}/{env}
func (d *DAO) QueryLatest(ctx context.Context, env string) ([]Record, error) {
	pk := NewPK(latest, env)
	var records []Record

	err := d.table.Query("#PK = ?", pk).
		FindAllWithContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest jobs: %w", err)
	}

	// Sort by UpdatedAt descending (most recent first)
	for i := 0; i < len(records)-1; i++ {
		for j := i + 1; j < len(records); j++ {
			if records[j].UpdatedAt > records[i].UpdatedAt {
				records[i], records[j] = records[j], records[i]
			}
		}
	}

	ids := slicex.Map(records, func(r Record) ID { return r.GetID() })

	// Load full job records for each ID
	jobs := make([]Record, 0, len(ids))
	for _, id := range ids {
		record, err := d.Find(ctx, id)
		if err != nil {
			// Skip records that are not found (may have been deleted)
			continue
		}
		jobs = append(jobs, record)
	}

	return jobs, nil
}
