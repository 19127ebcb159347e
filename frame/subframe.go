package frame

import (
	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/ferror"
)

// Pred identifies a subframe's prediction method.
type Pred uint8

const (
	PredConstant Pred = iota
	PredVerbatim
	PredFixed
	PredLPC
)

// Subframe holds the decoded samples and descriptive metadata of a single
// channel within a frame, before inter-channel decorrelation is applied.
type Subframe struct {
	Pred Pred
	// Order is the predictor order: always 0 for Constant/Verbatim, 0-4 for
	// Fixed, 1-32 for LPC.
	Order int
	// WastedBits is the number of trailing zero bits stripped from every
	// sample before coding.
	WastedBits uint8
	// LPC-only fields.
	LPCShift     int8
	LPCPrecision uint8
	LPCCoeffs    []int32
	// Samples holds exactly blockSize reconstructed values, already
	// left-shifted by WastedBits to restore the stripped bits.
	Samples []int32
}

// maxRawBits bounds the verbatim/constant/warm-up sample width, guarding
// against a corrupt bit depth field driving an absurd per-sample read. 33
// covers the widest legal case: a 32-bit stream's side channel, which
// carries one extra bit of width.
const maxRawBits = 33

// decodeSubframe decodes one channel's subframe. bps is the sample
// resolution to use for this channel (the frame's declared bits-per-sample,
// plus one when this is the wider side channel of a decorrelated pair).
func decodeSubframe(br *bits.Reader, blockSize int, bps uint) (*Subframe, error) {
	if bps > maxRawBits {
		return nil, ferror.Unsupportedf("subframe bits per sample %d exceeds %d", bps, maxRawBits)
	}

	zero, err := br.ReadBits(1)
	if err != nil {
		return nil, err
	}
	if zero != 0 {
		return nil, ferror.Newf("subframe header zero bit is set")
	}
	typeCode, err := br.ReadBits(6)
	if err != nil {
		return nil, err
	}
	hasWasted, err := br.ReadBits(1)
	if err != nil {
		return nil, err
	}
	var wasted uint8
	if hasWasted == 1 {
		k, err := br.ReadUnary()
		if err != nil {
			return nil, err
		}
		wasted = uint8(k) + 1
		if uint(wasted) >= bps {
			return nil, ferror.Newf("wasted bits %d leaves no room in a %d-bit sample", wasted, bps)
		}
	}
	effBps := bps - uint(wasted)

	sf := &Subframe{WastedBits: wasted}

	switch {
	case typeCode == 0:
		sf.Pred = PredConstant
		v, err := br.ReadBits(effBps)
		if err != nil {
			return nil, err
		}
		sample := int32(bits.IntN(v, effBps))
		sf.Samples = make([]int32, blockSize)
		for i := range sf.Samples {
			sf.Samples[i] = sample
		}

	case typeCode == 1:
		sf.Pred = PredVerbatim
		sf.Samples = make([]int32, blockSize)
		for i := range sf.Samples {
			v, err := br.ReadBits(effBps)
			if err != nil {
				return nil, err
			}
			sf.Samples[i] = int32(bits.IntN(v, effBps))
		}

	case typeCode >= 8 && typeCode <= 12:
		order := int(typeCode - 8)
		sf.Pred = PredFixed
		sf.Order = order
		if err := decodeFixedOrLPCBody(br, order, blockSize, effBps, sf, nil); err != nil {
			return nil, err
		}

	case typeCode >= 32:
		order := int(typeCode-32) + 1
		sf.Pred = PredLPC
		sf.Order = order
		precisionCode, err := br.ReadBits(4)
		if err != nil {
			return nil, err
		}
		if precisionCode == 0b1111 {
			return nil, ferror.Newf("reserved LPC precision code 0b1111")
		}
		precision := uint(precisionCode) + 1
		sf.LPCPrecision = uint8(precision)

		shiftRaw, err := br.ReadBits(5)
		if err != nil {
			return nil, err
		}
		shift := bits.IntN(shiftRaw, 5)
		if shift < 0 {
			return nil, ferror.Newf("negative LPC shift %d is not supported", shift)
		}
		sf.LPCShift = int8(shift)

		coeffs := make([]int32, order)
		for i := range coeffs {
			v, err := br.ReadBits(precision)
			if err != nil {
				return nil, err
			}
			coeffs[i] = int32(bits.IntN(v, precision))
		}
		sf.LPCCoeffs = coeffs

		if err := decodeFixedOrLPCBody(br, order, blockSize, effBps, sf, coeffs); err != nil {
			return nil, err
		}

	default:
		return nil, ferror.Newf("reserved subframe type code %#x", typeCode)
	}

	if wasted > 0 {
		for i, s := range sf.Samples {
			sf.Samples[i] = s << wasted
		}
	}

	return sf, nil
}

// decodeFixedOrLPCBody reads the warm-up samples and residual for a Fixed
// or LPC subframe and reconstructs sf.Samples in place. coeffs is nil for
// Fixed subframes.
func decodeFixedOrLPCBody(br *bits.Reader, order, blockSize int, bps uint, sf *Subframe, coeffs []int32) error {
	if order > blockSize {
		return ferror.Newf("predictor order %d exceeds block size %d", order, blockSize)
	}
	samples := make([]int32, blockSize)
	for i := 0; i < order; i++ {
		v, err := br.ReadBits(bps)
		if err != nil {
			return err
		}
		samples[i] = int32(bits.IntN(v, bps))
	}

	if err := decodeResidual(br, order, blockSize, samples[order:]); err != nil {
		return err
	}

	if coeffs != nil {
		applyLPC(coeffs, uint(sf.LPCShift), samples)
	} else {
		applyFixedPredictor(order, samples)
	}

	sf.Samples = samples
	return nil
}
