package domain

import (
	"encoding/json"
)

const (
	envelopeEncryptedKey = "encrypted"
	envelopeIVKey        = "iv"
	envelopeMarkerKey    = "isEncrypted"
)

// Envelope replaces a sensitive leaf after encryption. Both fields are standard base64.
//
// Wire format:
//
//	{"encrypted":"<base64>","iv":"<base64>","isEncrypted":true}
//
// An envelope parsed from an object with additional keys keeps that object in source, so a
// sealed envelope is written back exactly as it was read.
type Envelope struct {
	Encrypted string
	IV        string

	source *Object
}

func (e Envelope) Kind() Kind { return KindEnvelope }
func (e Envelope) isValue()   {}

// MarshalJSON writes the envelope wire format.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.source != nil {
		return e.source.MarshalJSON()
	}
	return json.Marshal(struct {
		Encrypted   string `json:"encrypted"`
		IV          string `json:"iv"`
		IsEncrypted bool   `json:"isEncrypted"`
	}{
		Encrypted:   e.Encrypted,
		IV:          e.IV,
		IsEncrypted: true,
	})
}

// Sealed is the output of a single primitive encryption, base64 encoded for transport.
type Sealed struct {
	Ciphertext string
	IV         string
}

// Envelope wraps the sealed value in its tree representation.
func (s Sealed) Envelope() Envelope {
	return Envelope{Encrypted: s.Ciphertext, IV: s.IV}
}

// envelopeOrObject returns an Envelope when obj carries the envelope keys with non-empty
// ciphertext and IV strings and a true marker, and obj itself otherwise. Other keys are kept
// only for serialization.
func envelopeOrObject(obj *Object) Value {
	marker, ok := obj.fields[envelopeMarkerKey].(Bool)
	if !ok || !bool(marker) {
		return obj
	}
	encrypted, ok := obj.fields[envelopeEncryptedKey].(String)
	if !ok || encrypted == "" {
		return obj
	}
	iv, ok := obj.fields[envelopeIVKey].(String)
	if !ok || iv == "" {
		return obj
	}
	env := Envelope{Encrypted: string(encrypted), IV: string(iv)}
	if obj.Len() != 3 {
		env.source = obj
	}
	return env
}
