package confver

// UnknownPolicy controls how keys with no declared field are handled on decode.
type UnknownPolicy int

const (
	UnknownStrip   UnknownPolicy = iota // Drop unknown keys (forward compatible, default).
	UnknownStrict                       // Reject unknown keys with an error.
)

// DecodeOpt bundles decoding options.
type DecodeOpt struct {
	MaxDepth int // 0 means DefaultMaxDepth.
}

// EncodeOpt bundles encoding options.
type EncodeOpt struct {
	MaxDepth int // 0 means DefaultMaxDepth.
}

// DefaultMaxDepth bounds tree recursion. Object graphs are acyclic by
// construction; the guard turns an accidental cycle into an error instead of
// a stack overflow.
const DefaultMaxDepth = 1000
