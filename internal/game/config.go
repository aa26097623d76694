package game

import "math"

// Tile grid. Rows run along the road, columns across it.
const (
	TileRows     = 33
	TileCols     = 65
	CellSize     = 2.0
	TileLength   = (TileRows - 1) * CellSize // 64
	TileWidth    = (TileCols - 1) * CellSize // 128
	TileHalfSpan = TileWidth / 2
	CentreCol    = (TileCols - 1) / 2
	UVRepeat     = 16.0
)

// Window defaults.
const (
	DefaultWindowDepth = 6
	MinWindowDepth     = 2
)

// Road cross-section (world units). +u is left of the heading (cliff),
// -u is right (water).
const (
	RoadHalfWidth = 8.0
	RoadHalfCells = int(RoadHalfWidth / CellSize)
	CliffHeight   = 30.0
	WaterDepth    = 10.0
	WaterLevel    = -3.0

	// Column offsets from the road edge of the wall line and the water row.
	CliffWallCells = 3
	WaterRowCells  = 3
)

// Procedural terrain.
const (
	CurveAngle    = math.Pi / 6
	MaxNetTurns   = 2
	ErosionSteps  = 10000
	ErosionDelta  = 0.05
	SeamBlendRows = 8
	TurnChance    = 45 // percent of non-first tiles that curve
)

// Driving, per fixed tick.
const (
	TickRate       = 60.0
	AutoDriveSpeed = 0.6
	PlayerSteerDeg = 1.2
	MaxPlayerSpeed = 1.4
	PlayerAccel    = 0.01
)

// Crash tuning.
const (
	CrashRecoverTicks = 120

	CliffSecondChanceTicks = 40
	CliffSecondChanceDist  = 0.1
	CliffApproachBrake     = 0.98
	CliffWallPull          = 1.0
	CliffSpeedDecay        = 0.5
	CliffViolence          = 40.0 // degrees of spin per unit of residual speed

	Gravity               = 0.02
	FallRollDeg           = 2.0
	FallCentripetal       = 0.15
	BounceSpeedFactor     = 0.5
	BounceDamping         = 0.6
	BounceCentripetalLoss = 0.3
)

// Session.
const (
	StartLives = 3
)

// Decorations and traffic.
const (
	SignChance      = 35 // percent chance per new tile
	SignCliffOffset = 2.0
	NPCChance       = 50
	NPCSpeed        = 0.5
	NPCLaneOffset   = RoadHalfWidth / 2
)
