// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Converter names one of the four converters as users refer to it in chat.
type Converter string

const (
	ConverterPDFToJPG     Converter = "pdf to jpg"
	ConverterImageToPDF   Converter = "image to pdf"
	ConverterPDFResizer   Converter = "pdf resizer"
	ConverterImageResizer Converter = "image resizer"
)

// Converters lists the converter names in the order they are matched.
var Converters = []Converter{
	ConverterPDFToJPG,
	ConverterImageToPDF,
	ConverterPDFResizer,
	ConverterImageResizer,
}

// IsConverter reports whether c is one of the four converter names.
func IsConverter(c Converter) bool {
	for _, known := range Converters {
		if c == known {
			return true
		}
	}
	return false
}

// Action is the last user action hinted at in conversation.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionConvert  Action = "convert"
	ActionDownload Action = "download"
)

// ConversationContext is the small state the help responder carries between
// utterances. It is never cleared during a session.
type ConversationContext struct {
	Topic      Converter `json:"topic,omitempty" yaml:"topic,omitempty"`
	LastAction Action    `json:"last_action,omitempty" yaml:"last_action,omitempty"`
}
