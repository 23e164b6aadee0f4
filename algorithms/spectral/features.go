package spectral

import "math"

// DefaultRolloffThreshold is the energy fraction below the rolloff frequency
const DefaultRolloffThreshold = 0.85

// Features describes where the energy of a spectrum sits
type Features struct {
	Centroid      float64 `json:"centroid"`       // Hz, power-weighted mean frequency
	Rolloff       float64 `json:"rolloff"`        // Hz below which threshold of the power lies
	PeakFrequency float64 `json:"peak_frequency"` // Hz of the loudest bin
	PeakDb        float64 `json:"peak_db"`
}

// FrameFeatures computes the features of frame i. Bins at or below floorDb
// carry no power. A frame with no power yields zero frequencies and a
// PeakDb of floorDb.
func (m *Matrix) FrameFeatures(i int, floorDb, threshold float64) Features {
	bins := m.Frames[i].Bins

	features := Features{PeakDb: floorDb}
	total, weighted := 0.0, 0.0
	for k, db := range bins {
		if db <= floorDb {
			continue
		}
		p := math.Pow(10, db/10)
		total += p
		weighted += p * m.BinFrequency(k)
		if db > features.PeakDb {
			features.PeakDb = db
			features.PeakFrequency = m.BinFrequency(k)
		}
	}
	if total == 0 {
		return features
	}
	features.Centroid = weighted / total

	target := threshold * total
	cumulative := 0.0
	for k, db := range bins {
		if db <= floorDb {
			continue
		}
		cumulative += math.Pow(10, db/10)
		if cumulative >= target {
			features.Rolloff = m.BinFrequency(k)
			break
		}
	}
	return features
}

// MeanFeatures averages centroid and rolloff over every frame that holds
// power and reports the loudest bin of the whole matrix.
func (m *Matrix) MeanFeatures(floorDb, threshold float64) Features {
	mean := Features{PeakDb: floorDb}
	active := 0
	for i := range m.Frames {
		f := m.FrameFeatures(i, floorDb, threshold)
		if f.PeakDb <= floorDb {
			continue
		}
		active++
		mean.Centroid += f.Centroid
		mean.Rolloff += f.Rolloff
		if f.PeakDb > mean.PeakDb {
			mean.PeakDb = f.PeakDb
			mean.PeakFrequency = f.PeakFrequency
		}
	}
	if active > 0 {
		mean.Centroid /= float64(active)
		mean.Rolloff /= float64(active)
	}
	return mean
}
