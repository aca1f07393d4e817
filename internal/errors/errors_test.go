package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-spellcanon/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "canonical spell not found",
			expected: "NOT_FOUND: canonical spell not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "record has no tradition field",
			expected: "INVALID_ARGUMENT: record has no tradition field",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("canonical spell not found").
		WithMeta("hash", "abc123").
		WithMeta("spell_name", "Fireball")

	s.Assert().Equal("abc123", err.Meta["hash"])
	s.Assert().Equal("Fireball", err.Meta["spell_name"])

	wrapped := errors.WrapWithCode(err, errors.CodeDataLoss, "stored record unreadable")
	wrapped.WithMeta("batch_id", "batch_1")
	s.Assert().Equal("abc123", wrapped.Meta["hash"])
	s.Assert().NotContains(err.Meta, "batch_id")
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to store canonical spell")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to store canonical spell", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	baseErr := errors.AlreadyExists("hash already stored")
	wrapped := errors.Wrap(baseErr, "duplicate spell")

	s.Assert().Equal(errors.CodeAlreadyExists, wrapped.Code)
	s.Assert().Equal("duplicate spell", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("dial timeout")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeUnavailable, "redis unavailable")

	s.Assert().Equal(errors.CodeUnavailable, wrapped.Code)
	s.Assert().Equal("redis unavailable", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
	}{
		{"NotFound", func() *errors.Error { return errors.NotFound("test") }, errors.CodeNotFound},
		{"InvalidArgument", func() *errors.Error { return errors.InvalidArgument("test") }, errors.CodeInvalidArgument},
		{"AlreadyExists", func() *errors.Error { return errors.AlreadyExists("test") }, errors.CodeAlreadyExists},
		{"Unavailable", func() *errors.Error { return errors.Unavailable("test") }, errors.CodeUnavailable},
		{"FailedPrecondition", func() *errors.Error { return errors.FailedPrecondition("test") }, errors.CodeFailedPrecondition},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal("test", err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestHelperFunctions() {
	notFoundErr := errors.NotFound("test")
	invalidErr := errors.InvalidArgument("test")
	wrappedErr := errors.Wrap(notFoundErr, "wrapped")

	s.Assert().True(errors.IsNotFound(notFoundErr))
	s.Assert().True(errors.IsNotFound(wrappedErr))
	s.Assert().False(errors.IsNotFound(invalidErr))

	s.Assert().True(errors.IsInvalidArgument(invalidErr))
	s.Assert().False(errors.IsInvalidArgument(notFoundErr))
}

func (s *ErrorsTestSuite) TestCodeOfForeignErrors() {
	plain := fmt.Errorf("standard error")

	s.Assert().True(errors.IsInternal(plain))
	s.Assert().True(errors.IsInternal(errors.Wrap(plain, "wrapped")))
	s.Assert().False(errors.IsInternal(nil))
	s.Assert().Nil(errors.GetMeta(plain))
	s.Assert().True(errors.IsDataLoss(errors.WrapWithCode(plain, errors.CodeDataLoss, "corrupt")))
	s.Assert().True(errors.IsCanceled(errors.WrapWithCode(plain, errors.CodeCanceled, "stopped")))
}

func (s *ErrorsTestSuite) TestGRPCConversion() {
	err := errors.InvalidArgument("spell has both school and sphere").
		WithMeta("spell_name", "Detect Magic")

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Assert().Equal(codes.InvalidArgument, st.Code())
	s.Assert().Equal("spell has both school and sphere", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.Assert().True(errors.IsInvalidArgument(back))
	s.Assert().Equal("Detect Magic", errors.GetMeta(back)["spell_name"])

	plain := errors.FromGRPCError(status.Error(codes.Unavailable, "redis down"))
	var e *errors.Error
	s.Require().True(errors.As(plain, &e))
	s.Assert().Equal(errors.CodeUnavailable, e.Code)
	s.Assert().Equal("redis down", e.Message)

	s.Assert().True(errors.IsNotFound(errors.FromGRPCError(status.Error(codes.NotFound, "gone"))))
	s.Assert().True(errors.IsInvalidArgument(errors.FromGRPCError(status.Error(codes.OutOfRange, "level"))))

	foreign := fmt.Errorf("not a status")
	s.Assert().Equal(foreign, errors.FromGRPCError(foreign))
	s.Assert().Nil(errors.FromGRPCError(nil))
}

func (s *ErrorsTestSuite) TestGRPCConversionOfForeignError() {
	st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Require().True(ok)
	s.Assert().Equal(codes.Internal, st.Code())
}

func (s *ErrorsTestSuite) TestGRPCConversionKeepsValidationFields() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("RedisAddr")
	grpcErr := errors.ToGRPCError(vb.Build())

	back := errors.FromGRPCError(grpcErr)
	fields, ok := errors.GetMeta(back)["validation_errors"].(map[string]interface{})
	s.Require().True(ok)
	s.Assert().Contains(fields, "RedisAddr")
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	testCases := []struct {
		code     errors.Code
		expected codes.Code
	}{
		{errors.CodeNotFound, codes.NotFound},
		{errors.CodeInvalidArgument, codes.InvalidArgument},
		{errors.CodeAlreadyExists, codes.AlreadyExists},
		{errors.CodeFailedPrecondition, codes.FailedPrecondition},
		{errors.CodeInternal, codes.Internal},
		{errors.CodeUnavailable, codes.Unavailable},
		{errors.CodeDataLoss, codes.DataLoss},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.GRPCCode())
		})
	}
}
