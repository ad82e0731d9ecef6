// Package dsl provides builders for versioned configuration schemas.
//
// An object schema is declared once, next to the struct it binds to:
//
//	type Server struct {
//		Host string `json:"host"`
//		Port int    `json:"port"`
//	}
//
//	var serverSchema = dsl.MustBind[Server](dsl.Object().
//		Field("host", dsl.String()).
//		Field("port", dsl.Int()).Default(8080).
//		Version("1.0.1").
//		Migration("1.0.0", "1.0.1", func(f map[string]any) map[string]any {
//			f["host"] = f["addr"]
//			delete(f, "addr")
//			return f
//		}))
//
// Field declaration order is the serialization order. Struct binding is
// resolved once at MustBind time, never during Encode/Decode.
package dsl
