package blender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rshade/spritebatch/internal/cache"
	"github.com/rshade/spritebatch/internal/engine"
	"github.com/rshade/spritebatch/internal/logging"
	"github.com/rshade/spritebatch/internal/sprite"
)

// sceneMarker prefixes the JSON line printed by the scene query script.
const sceneMarker = "SPRITEBATCH_SCENE="

// sceneQueryScript prints the active scene's camera, frame range and objects.
const sceneQueryScript = `import bpy, json
scene = bpy.context.scene
objects = [{"name": o.name, "type": o.type, "yaw": o.rotation_euler[2], "x": o.location.x, "y": o.location.y} for o in bpy.data.objects]
print("` + sceneMarker + `" + json.dumps({"camera": scene.camera.name if scene.camera else "", "frame_start": scene.frame_start, "frame_end": scene.frame_end, "objects": objects}))
`

// SceneInfo describes the active scene of a .blend file.
type SceneInfo struct {
	Camera     string        `json:"camera"`
	FrameStart int           `json:"frame_start"`
	FrameEnd   int           `json:"frame_end"`
	Objects    []SceneObject `json:"objects"`
}

// SceneObject is one object in the scene.
type SceneObject struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Yaw  float64 `json:"yaw"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Find returns the named object.
func (s *SceneInfo) Find(name string) (SceneObject, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return SceneObject{}, false
}

// ObjectNames lists the scene's object names in scene order.
func (s *SceneInfo) ObjectNames() []string {
	names := make([]string, 0, len(s.Objects))
	for _, o := range s.Objects {
		names = append(names, o.Name)
	}
	return names
}

// QueryScene loads the blend file in background mode and reports its active scene.
func QueryScene(ctx context.Context, opts Options) (*SceneInfo, error) {
	if opts.BlendFile == "" {
		return nil, ErrNoBlendFile
	}

	stdout, err := runBlenderCommand(ctx, blenderCmdConfig{
		opts:           opts,
		timeout:        opts.QueryTimeout,
		defaultTimeout: DefaultQueryTimeout,
		args:           pythonArgs(opts.BlendFile, sceneQueryScript),
		operation:      "scene query",
		logMessage:     "reading scene objects from blend file",
		wrapErr:        QueryError,
	})
	if err != nil {
		return nil, err
	}
	return parseSceneInfo(stdout)
}

// parseSceneInfo extracts the marker line from Blender's stdout, which also
// carries Blender's own startup chatter.
func parseSceneInfo(stdout []byte) (*SceneInfo, error) {
	for _, line := range bytes.Split(stdout, []byte("\n")) {
		line = bytes.TrimSpace(line)
		payload, ok := bytes.CutPrefix(line, []byte(sceneMarker))
		if !ok {
			continue
		}
		var info SceneInfo
		if err := json.Unmarshal(payload, &info); err != nil {
			return nil, fmt.Errorf("parsing blender scene query output: %w", err)
		}
		return &info, nil
	}
	return nil, fmt.Errorf("%w: no scene data in output", ErrQueryFailed)
}

// SceneStore persists scene query results between runs.
type SceneStore interface {
	Get(key string) (*cache.Entry, error)
	Set(key, source string, data json.RawMessage) error
}

// Resolver resolves targets against one blend file. The scene is queried once
// per Resolver, and across runs when a SceneStore is attached.
type Resolver struct {
	opts  Options
	store SceneStore

	once  sync.Once
	scene *SceneInfo
	err   error
}

var _ engine.TargetResolver = (*Resolver)(nil)

// NewResolver creates a Resolver for opts.BlendFile.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// WithStore attaches a persistent scene cache.
func (r *Resolver) WithStore(store SceneStore) *Resolver {
	r.store = store
	return r
}

// Scene returns the cached scene description, querying Blender on first use.
func (r *Resolver) Scene(ctx context.Context) (*SceneInfo, error) {
	r.once.Do(func() {
		r.scene, r.err = r.loadScene(ctx)
	})
	return r.scene, r.err
}

// loadScene consults the store before launching Blender. Store failures only
// cost a query; they are logged and never returned.
func (r *Resolver) loadScene(ctx context.Context) (*SceneInfo, error) {
	if r.store == nil || r.opts.BlendFile == "" {
		return QueryScene(ctx, r.opts)
	}

	log := logging.FromContext(ctx)
	key, err := cache.KeyForFile(r.opts.BlendFile)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("scene cache unavailable")
		return QueryScene(ctx, r.opts)
	}

	if entry, getErr := r.store.Get(key); getErr == nil {
		var info SceneInfo
		if jsonErr := json.Unmarshal(entry.Data, &info); jsonErr == nil {
			log.Debug().Ctx(ctx).Str("blend_file", r.opts.BlendFile).Msg("scene cache hit")
			return &info, nil
		}
	}

	info, err := QueryScene(ctx, r.opts)
	if err != nil {
		return nil, err
	}
	if data, jsonErr := json.Marshal(info); jsonErr == nil {
		if setErr := r.store.Set(key, r.opts.BlendFile, data); setErr != nil {
			log.Warn().Ctx(ctx).Err(setErr).Msg("failed to write scene cache")
		}
	}
	return info, nil
}

// Resolve finds the target object. In orbit mode an empty name selects the
// scene camera.
func (r *Resolver) Resolve(ctx context.Context, name string) (engine.Target, error) {
	return r.ResolveObject(ctx, name)
}

// ResolveObject is Resolve returning the concrete *Object.
func (r *Resolver) ResolveObject(ctx context.Context, name string) (*Object, error) {
	scene, err := r.Scene(ctx)
	if err != nil {
		return nil, err
	}

	mode := r.opts.Mode
	if mode == "" {
		mode = ModeYaw
	}
	if name == "" && mode == ModeOrbit {
		name = scene.Camera
	}
	if name == "" {
		return nil, sprite.NewConfigError(sprite.ErrTargetNotFound, "no target object named")
	}

	obj, ok := scene.Find(name)
	if !ok {
		return nil, sprite.NewConfigError(sprite.ErrTargetNotFound,
			"%q is not in %s (objects: %s)", name, r.opts.BlendFile, strings.Join(scene.ObjectNames(), ", "))
	}

	o := &Object{name: obj.Name, mode: mode}
	switch mode {
	case ModeOrbit:
		o.angle = math.Atan2(obj.Y, obj.X)
	default:
		o.angle = obj.Yaw
	}
	return o, nil
}

// Object is a Blender object used as a render Target. Its orientation lives in
// memory and is applied by the Renderer at each invocation; the blend file on
// disk is never modified.
type Object struct {
	name  string
	mode  Mode
	mu    sync.Mutex
	angle float64
}

var _ engine.Target = (*Object)(nil)

// NewObject creates an Object with a starting angle, for callers that already
// know the scene.
func NewObject(name string, mode Mode, angle float64) *Object {
	return &Object{name: name, mode: mode, angle: angle}
}

// Name returns the Blender object name.
func (o *Object) Name() string { return o.name }

// Mode returns how the angle is applied.
func (o *Object) Mode() Mode { return o.mode }

// Orientation returns the angle that the next render will apply.
func (o *Object) Orientation(context.Context) (float64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.angle, nil
}

// SetOrientation sets the angle that the next render will apply.
func (o *Object) SetOrientation(_ context.Context, radians float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.angle = radians
	return nil
}
