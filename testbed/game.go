package testbed

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/marionette/engine"
	"github.com/spaghettifunk/marionette/engine/animation"
	"github.com/spaghettifunk/marionette/engine/config"
	"github.com/spaghettifunk/marionette/engine/core"
	"github.com/spaghettifunk/marionette/engine/math"
	"github.com/spaghettifunk/marionette/engine/remote"
	"github.com/spaghettifunk/marionette/engine/renderer"
	"github.com/spaghettifunk/marionette/engine/systems"
)

// mirrorStep is how far the mirrored actor walks every time its state is
// published.
var mirrorStep = math.NewVec3(0, 0, 0.25)

type TestGame struct {
	*engine.Game
}

type actor struct {
	instance  *animation.Instance
	transform math.Transform
}

type gameState struct {
	model  *animation.Model
	actors []*actor
	// all is actors followed by mirror, if any.
	all []*actor

	// mirror is only ever moved by states coming back through the mailbox.
	mirror     *actor
	mailbox    *remote.Mailbox
	echo       *remote.Echo
	syncTimer  float64
	syncDelta  float64
	received   []remote.State
	stopRemote context.CancelFunc
	remoteDone sync.WaitGroup

	reloadMutex sync.Mutex
	reloaded    *animation.Model
}

func NewTestGame(cfg *config.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: cfg,
			State:             &gameState{},
		},
	}

	tg.Level = tg
	tg.FnInitialize = tg.Initialize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	cfg := g.ApplicationConfig
	st := g.state()

	core.LogInfo("loading %s with %s", cfg.Model.Mesh, cfg.Model.Animation)
	model, err := g.SystemManager.ModelLoaderSystem.Load(systems.ModelLoadParams{
		MeshPath: cfg.Model.Mesh,
		AnimPath: cfg.Model.Animation,
	})
	if err != nil {
		return err
	}
	st.model = model

	for i := 0; i < cfg.Model.Instances; i++ {
		st.actors = append(st.actors, g.newActor(math.NewVec3(float32(i)*cfg.Model.Spacing, 0, 0)))
	}

	if cfg.Sync.Enabled {
		st.mirror = g.newActor(math.NewVec3(-cfg.Model.Spacing, 0, 0))
		st.mailbox = remote.NewMailbox(cfg.Sync.MailboxCapacity)
		st.echo = remote.NewEcho(st.mailbox, cfg.Sync.MailboxCapacity)

		ctx, cancel := context.WithCancel(context.Background())
		st.stopRemote = cancel
		st.remoteDone.Add(1)
		go func() {
			defer st.remoteDone.Done()
			_ = st.echo.Run(ctx)
		}()
	}

	st.all = append(st.all, st.actors...)
	if st.mirror != nil {
		st.all = append(st.all, st.mirror)
	}

	if cfg.Model.HotReload {
		go g.watchModel()
	}

	core.LogInfo("%d actors sharing a %.2fs loop", len(st.actors), model.Duration())
	return nil
}

func (g *TestGame) newActor(position math.Vec3) *actor {
	inst := animation.NewInstance(g.state().model)
	inst.SetNormalizeNormals(g.ApplicationConfig.Model.NormalizeNormals)
	return &actor{
		instance:  inst,
		transform: math.TransformFromPosition(position),
	}
}

// watchModel rebuilds the model whenever one of its files changes. It
// returns once the asset manager closes its change feed.
func (g *TestGame) watchModel() {
	cfg := g.ApplicationConfig
	mesh, anim := filepath.Clean(cfg.Model.Mesh), filepath.Clean(cfg.Model.Animation)

	for change := range g.SystemManager.AssetManager.Changes() {
		if change.Path != mesh && change.Path != anim {
			continue
		}
		core.LogDebug("%s changed, reloading the model", change.Path)
		g.SystemManager.ModelLoaderSystem.LoadAsync(systems.ModelLoadParams{
			MeshPath: cfg.Model.Mesh,
			AnimPath: cfg.Model.Animation,
		}, g.onModelLoaded, nil)
	}
}

// onModelLoaded is called from a job goroutine; the swap happens on the
// next Update.
func (g *TestGame) onModelLoaded(model *animation.Model) {
	st := g.state()
	st.reloadMutex.Lock()
	st.reloaded = model
	st.reloadMutex.Unlock()
}

func (g *TestGame) Update(deltaTime float64) error {
	st := g.state()

	st.reloadMutex.Lock()
	reloaded := st.reloaded
	st.reloaded = nil
	st.reloadMutex.Unlock()
	if reloaded != nil {
		st.model = reloaded
		for _, a := range g.allActors() {
			a.instance.SetModel(reloaded)
		}
		core.LogInfo("model %s reloaded", reloaded.MeshPath)
	}

	if st.mailbox != nil {
		st.received = st.mailbox.Drain(st.received[:0])
		for _, s := range st.received {
			g.applyRemote(s)
		}
	}

	for _, a := range st.actors {
		a.instance.Advance(deltaTime)
	}

	if st.echo != nil {
		g.publishMirror(deltaTime)
	}
	return nil
}

// publishMirror sends the time that passed since the last publish so the
// mirror plays in step with the local actors, only in coarser steps.
func (g *TestGame) publishMirror(deltaTime float64) {
	st := g.state()
	st.syncTimer += deltaTime
	st.syncDelta += deltaTime
	if st.syncTimer < g.ApplicationConfig.Sync.Interval {
		return
	}
	st.syncTimer = 0

	err := st.echo.Publish(remote.State{
		Instance:    st.mirror.instance.ID,
		DeltaTime:   float32(st.syncDelta),
		Translation: mirrorStep,
	})
	if err != nil {
		core.LogWarn("mirror state not published: %s", err.Error())
		return
	}
	st.syncDelta = 0
}

func (g *TestGame) applyRemote(s remote.State) {
	for _, a := range g.allActors() {
		if a.instance.ID == s.Instance {
			a.instance.Advance(float64(s.DeltaTime))
			a.transform.Translate(s.Translation)
			return
		}
	}
	core.LogDebug("state for unknown instance %s ignored", s.Instance)
}

func (g *TestGame) Draw(packet *renderer.RenderPacket) error {
	for _, a := range g.allActors() {
		for _, m := range a.instance.DeformedMeshes() {
			packet.Geometries = append(packet.Geometries, renderer.GeometryRenderData{
				InstanceID: a.instance.ID,
				Transform:  a.transform,
				Shader:     m.Shader,
				Vertices:   m.Vertices,
				Indices:    m.Indices,
			})
		}
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	st := g.state()
	if st.stopRemote != nil {
		st.stopRemote()
		st.remoteDone.Wait()
	}
	return nil
}

func (g *TestGame) allActors() []*actor {
	return g.state().all
}
