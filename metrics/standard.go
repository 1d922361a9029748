package metrics

// Pre-defined metrics for the blockchain index. All metrics live in
// DefaultRegistry so they are globally accessible without passing a
// registry around, and so a single RegistryCollector picks them all up.
var (
	// ChainHeight tracks the current canonical chain tip's block number.
	ChainHeight = DefaultRegistry.Gauge("blockchain.height")
	// ChainDifficultyTotal tracks the canonical tip's total difficulty. The
	// gauge is an int64; the chain sets it from the low 64 bits of the value.
	ChainDifficultyTotal = DefaultRegistry.Gauge("blockchain.difficulty_total")
	// AppendLatency records Chain.Append duration in milliseconds.
	AppendLatency = DefaultRegistry.Histogram("blockchain.append_ms")
	// BlocksAppended counts blocks accepted by Chain.Append, regardless of
	// whether they advanced the head, forked, or triggered a reorg.
	BlocksAppended = DefaultRegistry.Counter("blockchain.blocks_appended")
	// ForksObserved counts blocks appended as a side-chain fork.
	ForksObserved = DefaultRegistry.Counter("blockchain.forks_observed")
	// ReorgsDetected counts chain reorganization events.
	ReorgsDetected = DefaultRegistry.Counter("blockchain.reorgs")

	// ProcessCPUPercent tracks this process's CPU utilization, refreshed by
	// a CPUTracker sampled periodically by the host binary.
	ProcessCPUPercent = DefaultRegistry.Gauge("process.cpu_percent")

	// AppendRate tracks the 1/5/15-minute moving average of Chain.Append
	// calls, independent of the cumulative BlocksAppended counter.
	AppendRate = NewMeter()
)
