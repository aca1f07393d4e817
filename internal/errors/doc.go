// Package errors provides the structured error type shared by every layer of
// the spell canonicalization service.
//
// Errors carry a Code, a user-facing message, an optional cause and free-form
// metadata. The code survives wrapping and crosses the gRPC boundary in both
// directions, with metadata packed into the status details.
//
// # Basic Usage
//
//	err := errors.NotFound("canonical spell not found").
//	    WithMeta("hash", hash)
//
//	if err := repo.Put(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to store canonical spell")
//	}
//
// # Validation
//
// Config structs and request inputs validate with the builder, which returns
// nil or a single InvalidArgument error listing every failing field:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("RedisAddr", cfg.RedisAddr, vb)
//	errors.ValidatePositive("ImportConcurrency", cfg.ImportConcurrency, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return NotFound and AlreadyExists with the hash in metadata
//   - Wrap redis errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Keep per-record assembly failures in the output rather than failing the batch
//
// Handler layer:
//   - Convert errors with ToGRPCError
//
// Client layer:
//   - Convert status errors back with FromGRPCError
package errors
