package vmap

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-vmap/internal/logger"
	"github.com/Faultbox/midgard-vmap/pkg/vmath"
)

// Mesh is the triangle-level intersection capability of a loaded
// model. All coordinates are in the model's object space; mesh data is
// immutable once loaded, so concurrent read access is safe.
type Mesh interface {
	// IntersectRay tests the ray against the mesh within maxDist.
	// On a hit it returns the (possibly tightened) hit distance.
	IntersectRay(r vmath.Ray, maxDist float32, stopAtFirstHit, ignoreSimple bool) (float32, bool)

	// IntersectPoint probes from p along down for the nearest ground
	// surface and returns the distance plus surface attributes.
	IntersectPoint(p, down vmath.Vec3) (dist float32, hit GroundHit, ok bool)

	// LocationInfo is IntersectPoint plus the hit sub-group and the
	// root identifier, for follow-up liquid queries.
	LocationInfo(p, down vmath.Vec3) (dist float32, group MeshGroup, rootID uint32, ok bool)
}

// MeshGroup is the sub-group capability needed for liquid queries.
type MeshGroup interface {
	// LiquidLevel returns the liquid surface height at the given
	// object-space horizontal position, if the group carries liquid.
	LiquidLevel(p vmath.Vec3) (float32, bool)
}

// GroundHit carries the surface attributes of a ground intersection.
type GroundHit struct {
	Flags   uint32
	RootID  uint32
	GroupID uint32
}

// AreaInfo accumulates the topmost ground surface found across
// candidate instances. The caller threads it through IntersectPoint
// calls; each call only raises GroundZ, never lowers it.
type AreaInfo struct {
	Hit     bool
	Flags   uint32
	TileID  uint16
	RootID  uint32
	GroupID uint32
	GroundZ float32
}

// NewAreaInfo returns an AreaInfo ready for aggregation, with GroundZ
// below any reachable surface.
func NewAreaInfo() AreaInfo {
	return AreaInfo{GroundZ: float32(math.Inf(-1))}
}

// LocationInfo accumulates the topmost ground surface plus the
// references needed for a follow-up liquid query.
type LocationInfo struct {
	Instance *Instance // Instance that produced the current hit
	Group    MeshGroup // Mesh sub-group that was hit
	RootID   uint32
	GroundZ  float32
}

// NewLocationInfo returns a LocationInfo ready for aggregation.
func NewLocationInfo() LocationInfo {
	return LocationInfo{GroundZ: float32(math.Inf(-1))}
}

// down is the world-space ground probe direction.
var down = vmath.Vec3{X: 0, Y: 0, Z: -1}

// Instance is a Spawn paired with its derived inverse transform and an
// optionally loaded mesh. The transform fields are fixed at
// construction, so concurrent read-only queries are safe; attaching or
// detaching the mesh must be synchronized externally.
type Instance struct {
	Spawn
	invRot   vmath.Mat3
	invScale float32
	mesh     Mesh // nil while the model is not loaded
}

// NewInstance pairs a spawn with a possibly absent mesh and
// precomputes the world-to-object transform.
func NewInstance(spawn Spawn, mesh Mesh) *Instance {
	const degToRad = math.Pi / 180
	// Stored angles feed the composition axes as Z<-Rot.Y, Y<-Rot.X,
	// X<-Rot.Z; this matches the persisted convention.
	rot := vmath.EulerZYX(
		spawn.Rot.Y*degToRad,
		spawn.Rot.X*degToRad,
		spawn.Rot.Z*degToRad,
	)
	return &Instance{
		Spawn:    spawn,
		invRot:   rot.Transposed(),
		invScale: 1 / spawn.Scale,
		mesh:     mesh,
	}
}

// SetMesh attaches or clears the loaded mesh. Callers must not race
// SetMesh with queries on the same instance.
func (i *Instance) SetMesh(m Mesh) {
	i.mesh = m
}

// Mesh returns the currently attached mesh, or nil.
func (i *Instance) Mesh() Mesh {
	return i.mesh
}

// worldToModel maps a world-space point into object space.
func (i *Instance) worldToModel(p vmath.Vec3) vmath.Vec3 {
	return i.invRot.MulVec(p.Sub(i.Pos)).Scale(i.invScale)
}

// modelToWorldZ maps an object-space point back to world space and
// returns its height. The inverse of a pure rotation is its transpose.
func (i *Instance) modelToWorldZ(p vmath.Vec3) float32 {
	return i.invRot.Transposed().MulVec(p).Scale(i.Scale).Add(i.Pos).Z
}

// IntersectRay tests the world-space ray against this instance within
// *maxDist. On a hit, *maxDist is tightened to the world-space hit
// distance; it is never increased.
func (i *Instance) IntersectRay(ray vmath.Ray, maxDist *float32, stopAtFirstHit, ignoreSimple bool) bool {
	if i.mesh == nil {
		logger.Debug("model not loaded", zap.String("name", i.Name))
		return false
	}
	if _, hit := i.Bound.IntersectRay(ray); !hit {
		return false
	}

	// Mesh geometry is defined in object space. Directions rotate but
	// do not translate or scale.
	modRay := vmath.Ray{
		Origin: i.worldToModel(ray.Origin),
		Dir:    i.invRot.MulVec(ray.Dir),
	}
	dist, hit := i.mesh.IntersectRay(modRay, *maxDist*i.invScale, stopAtFirstHit, ignoreSimple)
	if !hit {
		return false
	}
	*maxDist = dist * i.Scale
	return true
}

// IntersectPoint projects the world-space point onto the ground
// surface of this instance, keeping the topmost surface recorded in
// info across overlapping instances.
func (i *Instance) IntersectPoint(p vmath.Vec3, info *AreaInfo) {
	if i.mesh == nil {
		logger.Debug("model not loaded", zap.String("name", i.Name))
		return
	}
	// Simple prop models carry no area data.
	if i.Flags.Has(FlagSimpleModel) {
		return
	}
	if !i.Bound.Contains(p) {
		return
	}

	pModel := i.worldToModel(p)
	downModel := i.invRot.MulVec(down)
	dist, hit, ok := i.mesh.IntersectPoint(pModel, downModel)
	if !ok {
		return
	}

	ground := pModel.Add(downModel.Scale(dist))
	worldZ := i.modelToWorldZ(ground)
	if info.GroundZ < worldZ {
		info.Hit = true
		info.GroundZ = worldZ
		info.TileID = i.TileID
		info.Flags = hit.Flags
		info.RootID = hit.RootID
		info.GroupID = hit.GroupID
	}
}

// GetLocationInfo is IntersectPoint with the hit sub-group and root
// identifier recorded for follow-up liquid queries. It reports true
// only when this instance produced a new topmost surface; a geometric
// hit below the recorded height reports false.
func (i *Instance) GetLocationInfo(p vmath.Vec3, info *LocationInfo) bool {
	if i.mesh == nil {
		logger.Debug("model not loaded", zap.String("name", i.Name))
		return false
	}
	if i.Flags.Has(FlagSimpleModel) {
		return false
	}
	if !i.Bound.Contains(p) {
		return false
	}

	pModel := i.worldToModel(p)
	downModel := i.invRot.MulVec(down)
	dist, group, rootID, ok := i.mesh.LocationInfo(pModel, downModel)
	if !ok {
		return false
	}

	ground := pModel.Add(downModel.Scale(dist))
	worldZ := i.modelToWorldZ(ground)
	if info.GroundZ < worldZ {
		info.Instance = i
		info.Group = group
		info.RootID = rootID
		info.GroundZ = worldZ
		return true
	}
	return false
}

// GetLiquidLevel returns the world-space liquid surface height under
// the point, using the sub-group recorded by a prior GetLocationInfo.
// Only the horizontal object-space coordinates of p matter, so they
// are recomputed here rather than carried over from the ground pass.
func (i *Instance) GetLiquidLevel(p vmath.Vec3, info *LocationInfo) (float32, bool) {
	pModel := i.worldToModel(p)
	depth, ok := info.Group.LiquidLevel(pModel)
	if !ok {
		return 0, false
	}
	liquid := vmath.Vec3{X: pModel.X, Y: pModel.Y, Z: depth}
	return i.modelToWorldZ(liquid), true
}
