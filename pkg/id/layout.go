package id

// Bit widths of the ID fields.
const (
	TimestampBits  = 41
	WorkerIDBits   = 5
	DataCenterBits = 5
	SequenceBits   = 12
)

// Field maxima.
const (
	MaxTimestamp    = 1<<TimestampBits - 1
	MaxWorkerID     = 1<<WorkerIDBits - 1
	MaxDataCenterID = 1<<DataCenterBits - 1
	MaxSequence     = 1<<SequenceBits - 1
)

// Left shifts applied when composing an ID.
const (
	DataCenterShift = SequenceBits
	WorkerIDShift   = DataCenterBits + SequenceBits
	TimestampShift  = WorkerIDBits + DataCenterBits + SequenceBits
)

func compose(ts, workerID, dataCenterID, seq int64) ID {
	return ID(uint64(ts)<<TimestampShift |
		uint64(workerID)<<WorkerIDShift |
		uint64(dataCenterID)<<DataCenterShift |
		uint64(seq))
}
