package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  NewAppError(ErrTypeAmbiguousDateFormat, "no sample has a component above 12", nil),
			want: "[AMBIGUOUS_DATE_FORMAT] no sample has a component above 12",
		},
		{
			name: "with cause",
			err:  NewStorageError("read rates.csv", fmt.Errorf("permission denied")),
			want: "[STORAGE] read rates.csv: permission denied",
		},
		{
			name: "bare sentinel",
			err:  ErrLookupExhausted,
			want: "LOOKUP_EXHAUSTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := NewParsingError("bad row", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, NewAppValidationError("x").Unwrap())
}

func TestAppError_IsMatchesSentinelByType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "same type",
			err:      Newf(ErrTypeLookupExhausted, "no rate within %d days", 10),
			sentinel: ErrLookupExhausted,
			want:     true,
		},
		{
			name:     "wrapped",
			err:      fmt.Errorf("load: %w", Newf(ErrTypeMixedSeparators, "mixed")),
			sentinel: ErrMixedSeparators,
			want:     true,
		},
		{
			name:     "different type",
			err:      Newf(ErrTypeAmbiguousDateFormat, "ambiguous"),
			sentinel: ErrUnsupportedDateSeparator,
			want:     false,
		},
		{
			name:     "non sentinel target does not match by type",
			err:      Newf(ErrTypeNumericParse, "a"),
			sentinel: Newf(ErrTypeNumericParse, "b"),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestTypeOfAndIsType(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewIndexOutOfRangeError(7, 3))

	assert.Equal(t, ErrTypeIndexOutOfRange, TypeOf(err))
	assert.True(t, IsType(err, ErrTypeIndexOutOfRange))
	assert.False(t, IsType(err, ErrTypeLookupExhausted))
	assert.False(t, IsType(nil, ErrTypeIndexOutOfRange))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain")))
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeValidation, Message: "bad"}
	err.WithContext("field", "date").WithContext("row", 4)

	require.NotNil(t, err.Context)
	assert.Equal(t, "date", err.Context["field"])
	assert.Equal(t, 4, err.Context["row"])
}

func TestNewNumericParseError(t *testing.T) {
	err := NewNumericParseError("12a", fmt.Errorf("can't convert"))

	assert.Equal(t, ErrTypeNumericParse, err.Type)
	assert.Equal(t, "12a", err.Context["value"])
	assert.Contains(t, err.Error(), `"12a"`)
}

func TestNewIndexOutOfRangeError(t *testing.T) {
	err := NewIndexOutOfRangeError(-5, 3)

	assert.Equal(t, ErrTypeIndexOutOfRange, err.Type)
	assert.Equal(t, -5, err.Context["index"])
	assert.Equal(t, 3, err.Context["width"])
}

func TestErrorType_IsWarning(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    bool
	}{
		{ErrTypeAmbiguousSeparatorTie, true},
		{ErrTypeInconsistentTimeFormat, true},
		{ErrTypeAmbiguousDateFormat, false},
		{ErrTypeLookupExhausted, false},
		{ErrTypeConfig, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.errType.IsWarning())
		})
	}
}

func TestHelperConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"parsing", NewParsingError("p", nil), ErrTypeParsing},
		{"storage", NewStorageError("s", nil), ErrTypeStorage},
		{"validation", NewAppValidationError("v"), ErrTypeValidation},
		{"not found", NewNotFoundError("rate"), ErrTypeNotFound},
		{"config", NewConfigError("c", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}

	assert.Equal(t, "rate not found", NewNotFoundError("rate").Message)
}
