package protocol

import "strings"

type Codec interface {
	// Marshal returns the printable form of v, without a trailing newline.
	Marshal(v *Message) ([]byte, error)
	// Unmarshal parses the printable form into v.
	Unmarshal(data []byte, v *Message) error
	// Name returns the name the codec is registered and selected by.
	Name() string
}

var registeredCodecs = make(map[string]Codec)

func RegisterCodec(codec Codec) {
	if codec == nil {
		panic("cannot register a nil Codec")
	}
	if codec.Name() == "" {
		panic("cannot register Codec with empty string result for Name()")
	}
	registeredCodecs[strings.ToLower(codec.Name())] = codec
}

// GetCodec returns nil for an unknown name.
func GetCodec(codecType string) Codec {
	return registeredCodecs[strings.ToLower(codecType)]
}
