package meta

import (
	"fmt"
	"io"
	"io/ioutil"
)

// registeredApplications maps from a registered application ID to a
// description, used only for human-readable formatting.
var registeredApplications = map[ID]string{
	"ATCH": "FlacFile",
	"BSOL": "beSolo",
	"BUGS": "Bugs Player",
	"Cues": "GoldWave cue points",
	"Fica": "CUE Splitter",
	"Ftol": "flac-tools",
	"MOTB": "MOTB MetaCzar",
	"MPSE": "MP3 Stream Editor",
	"MuML": "MusicML: Music Metadata Language",
	"RIFF": "Sound Devices RIFF chunk storage",
	"SFFL": "Sound Font FLAC",
	"SONY": "Sony Creative Software",
	"SQEZ": "flacsqueeze",
	"TtWv": "TwistedWave",
	"UITS": "UITS Embedding tools",
	"aiff": "FLAC AIFF chunk storage",
	"imag": "flac-image application",
	"peem": "Parseable Embedded Extensible Metadata",
	"qfst": "QFLAC Studio",
	"riff": "FLAC RIFF chunk storage",
	"tune": "TagTuner",
	"xbat": "XBAT",
	"xmcd": "xmcd",
}

// An ID is a 4 byte identifier of an application.
type ID string

func (id ID) String() string {
	if s, ok := registeredApplications[id]; ok {
		return s
	}
	return fmt.Sprintf("<unregistered ID: %q>", string(id))
}

// An Application metadata block is used by third-party applications. The
// only mandatory field is a 32-bit identifier; the remainder of the block is
// opaque to this decoder.
type Application struct {
	// Application ID.
	ID ID
	// Application data.
	Data []byte
}

// NewApplication parses and returns a new Application metadata block.
//
// Application format:
//
//	id   uint32
//	data [header.Length-4]byte
func NewApplication(r io.Reader) (*Application, error) {
	buf, err := readBytes(r, 4)
	if err != nil {
		return nil, err
	}
	app := &Application{ID: ID(append([]byte(nil), buf...))}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	app.Data = data
	return app, nil
}
