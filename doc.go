package confver

// Package confver provides:
//
// - Versioned, JSON-representable configuration schemas bound to Go structs
// - A per-type current version stamped into serialized output (config_version)
// - Ordered migration chains that bring stale documents up to the current schema
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; builders live under dsl/,
//   field codecs under codec/, and the CLI under cmd/confver.
// - The core is a synchronous depth-first tree transform. All I/O happens in
//   document Sources and the Marshal/Unmarshal shims, never inside Encode/Decode.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	type Server struct {
//		Host string `json:"host"`
//		Port int    `json:"port"`
//	}
//
//	var serverSchema = dsl.MustBind[Server](dsl.Object().
//		Field("host", dsl.String()).
//		Field("port", dsl.Int()).
//		Version("1.0.1").
//		Migration("1.0.0", "1.0.1", renameAddrToHost))
//
//	v, err := confver.DecodeFrom(ctx, serverSchema, confver.JSONBytes(data))
//	out, err := confver.Marshal(ctx, serverSchema, v)
