package flac

import (
	"io"

	"github.com/mewkiz/flac/internal/ferror"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// ErrNoSeeker reports that the stream was opened over a source that does
// not support seeking.
var ErrNoSeeker = ferror.Unsupportedf("stream source does not support seeking")

// Seek moves the stream to the frame containing the given absolute sample
// number and returns that frame's first sample number. It requires a
// stream opened over an io.ReadSeeker (Open, or New/Parse/NewSeek given
// one directly).
//
// The first call against a stream with no SeekTable metadata block scans
// every frame once to build one, which costs a full pass over the audio
// data.
func (s *Stream) Seek(sampleNum uint64) (uint64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.seeker == nil {
		return 0, s.poison(ErrNoSeeker)
	}
	if s.info.SampleCount != 0 && sampleNum >= s.info.SampleCount {
		return 0, ferror.Newf("seek target sample %d is beyond stream sample count %d", sampleNum, s.info.SampleCount)
	}

	if s.seekTable == nil || len(s.seekTable.Points) == 0 {
		table, err := s.scanSeekTable()
		if err != nil {
			return 0, s.poison(err)
		}
		s.seekTable = table
	}

	point := searchSeekPoint(s.seekTable.Points, sampleNum)
	if _, err := s.seeker.Seek(s.dataStart+int64(point.Offset), io.SeekStart); err != nil {
		return 0, s.poison(err)
	}
	s.samplesDecoded = point.SampleNum

	for {
		frameStart, err := s.seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, s.poison(err)
		}
		fr, err := frame.Decode(s.br, s.info)
		if err != nil {
			return 0, s.poison(err)
		}
		first := frameFirstSample(fr, s)
		if first+uint64(fr.BlockSize) > sampleNum {
			s.samplesDecoded = first
			if _, err := s.seeker.Seek(frameStart, io.SeekStart); err != nil {
				return 0, s.poison(err)
			}
			return first, nil
		}
		s.samplesDecoded = first + uint64(fr.BlockSize)
	}
}

// scanSeekTable decodes every frame from the start of the audio data to
// build a seek table, then restores the stream's position and decoded
// sample counter to what they were beforehand.
func (s *Stream) scanSeekTable() (*meta.SeekTable, error) {
	savedPos, err := s.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	savedSamples := s.samplesDecoded

	if _, err := s.seeker.Seek(s.dataStart, io.SeekStart); err != nil {
		return nil, err
	}
	s.samplesDecoded = 0

	var points []meta.SeekPoint
	var sampleNum uint64
	for {
		more, err := s.hasMoreBytes()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		off, err := s.seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		fr, err := frame.Decode(s.br, s.info)
		if err != nil {
			return nil, err
		}
		points = append(points, meta.SeekPoint{
			SampleNum: sampleNum,
			Offset:    uint64(off - s.dataStart),
			NSamples:  fr.BlockSize,
		})
		sampleNum += uint64(fr.BlockSize)
	}

	s.samplesDecoded = savedSamples
	if _, err := s.seeker.Seek(savedPos, io.SeekStart); err != nil {
		return nil, err
	}
	return &meta.SeekTable{Points: points}, nil
}

// searchSeekPoint returns the last seek point at or before sampleNum, or
// the zero SeekPoint if points is empty or every point comes after
// sampleNum.
func searchSeekPoint(points []meta.SeekPoint, sampleNum uint64) meta.SeekPoint {
	var best meta.SeekPoint
	for _, p := range points {
		if p.SampleNum > sampleNum {
			break
		}
		best = p
	}
	return best
}
