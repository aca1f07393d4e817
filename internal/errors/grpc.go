package errors

import (
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// metaCodeKey carries our error code inside the status details so a client
// can recover codes that have no exact gRPC twin.
const metaCodeKey = "error_code"

// ToGRPCError turns err into a status error for a handler to return. Status
// errors pass through; an *Error keeps its message and ships its code and
// metadata as a structpb detail. Anything else is Internal.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *Error
	if !As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if details, detailErr := metaToStruct(e.Code, e.Meta); detailErr == nil {
		if withDetails, attachErr := st.WithDetails(details); attachErr == nil {
			st = withDetails
		}
	}
	return st.Err()
}

// FromGRPCError is the client side of ToGRPCError: the returned *Error has
// the original code and metadata when the server attached them, and the
// nearest code to the status code otherwise. Errors that are not statuses
// are returned unchanged.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	out := &Error{
		Code:    grpcCodeToCode(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		details, ok := detail.(*structpb.Struct)
		if !ok {
			continue
		}
		meta := details.AsMap()
		if code, ok := meta[metaCodeKey].(string); ok {
			out.Code = Code(code)
			delete(meta, metaCodeKey)
		}
		if len(meta) > 0 {
			out.Meta = meta
		}
		break
	}

	return out
}

// GRPCCode is the status code ToGRPCError uses for c.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK
	case CodeCanceled:
		return codes.Canceled
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeDeadlineExceeded:
		return codes.DeadlineExceeded
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists
	case CodeFailedPrecondition:
		return codes.FailedPrecondition
	case CodeAborted:
		return codes.Aborted
	case CodeUnimplemented:
		return codes.Unimplemented
	case CodeInternal:
		return codes.Internal
	case CodeUnavailable:
		return codes.Unavailable
	case CodeDataLoss:
		return codes.DataLoss
	default:
		return codes.Unknown
	}
}

func grpcCodeToCode(grpcCode codes.Code) Code {
	switch grpcCode {
	case codes.OK:
		return CodeOK
	case codes.Canceled:
		return CodeCanceled
	case codes.InvalidArgument, codes.OutOfRange:
		return CodeInvalidArgument
	case codes.DeadlineExceeded:
		return CodeDeadlineExceeded
	case codes.NotFound:
		return CodeNotFound
	case codes.AlreadyExists:
		return CodeAlreadyExists
	case codes.FailedPrecondition:
		return CodeFailedPrecondition
	case codes.Aborted:
		return CodeAborted
	case codes.Unimplemented:
		return CodeUnimplemented
	case codes.Unavailable:
		return CodeUnavailable
	case codes.DataLoss:
		return CodeDataLoss
	default:
		return CodeInternal
	}
}

// metaToStruct packs error metadata into a structpb.Struct. Meta values such
// as map[string][]string are not accepted by structpb directly, so they go
// through a JSON round trip first.
func metaToStruct(code Code, meta map[string]interface{}) (*structpb.Struct, error) {
	payload := map[string]interface{}{metaCodeKey: string(code)}
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		var plain map[string]interface{}
		if err := json.Unmarshal(raw, &plain); err != nil {
			return nil, err
		}
		for k, v := range plain {
			payload[k] = v
		}
	}
	return structpb.NewStruct(payload)
}
