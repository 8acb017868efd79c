package main

import (
	"fmt"
	"log"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alex-netkachov/nbjs-eventful/pkg/app"
	"github.com/alex-netkachov/nbjs-eventful/pkg/config"
	"github.com/alex-netkachov/nbjs-eventful/pkg/contracts"
	"github.com/alex-netkachov/nbjs-eventful/pkg/emitter"
	"github.com/alex-netkachov/nbjs-eventful/pkg/emitter/metrics"
	"github.com/alex-netkachov/nbjs-eventful/pkg/logger"
)

type OrderPlaced struct {
	ID    string
	Total int
}

// demoModule walks the emitter surface once the application is up and
// then stops the run loop.
type demoModule struct {
	registry *prometheus.Registry
}

func (d *demoModule) Name() string { return "demo" }

func (d *demoModule) Register(container contracts.DIContainer) error { return nil }

func (d *demoModule) Start(ctx contracts.AppContext) error {
	raw, err := ctx.Container().Resolve(reflect.TypeOf((*contracts.Emitter)(nil)).Elem())
	if err != nil {
		return err
	}
	em := raw.(contracts.Emitter)
	defer ctx.Stop()

	greeter := func(args ...any) error {
		fmt.Printf("welcome, %v\n", args[0])
		return nil
	}
	sub, err := em.On("user.registered", greeter)
	if err != nil {
		return err
	}
	if _, err := em.Once("user.registered", func(args ...any) error {
		fmt.Println("first registration celebrated")
		return nil
	}); err != nil {
		return err
	}

	if err := em.Emit("user.registered", "alice"); err != nil {
		return err
	}
	if err := em.EmitAsync(ctx.ParentContext(), "user.registered", "bob"); err != nil {
		return err
	}

	if removed, _ := em.Off("user.registered", greeter); removed {
		fmt.Println("greeter removed")
	}
	fmt.Printf("still listening: %v\n", em.Has("user.registered"))
	_ = sub.Unsubscribe()

	orders := emitter.NewTyped[OrderPlaced](em)
	if _, err := orders.On(func(e OrderPlaced) error {
		fmt.Printf("order %s placed for %d\n", e.ID, e.Total)
		return nil
	}); err != nil {
		return err
	}
	if err := orders.Emit(OrderPlaced{ID: "o-1001", Total: 42}); err != nil {
		return err
	}

	host, err := emitter.Attach(nil)
	if err != nil {
		return err
	}
	capabilities := host.(map[string]any)
	on := capabilities["on"].(func(string, emitter.Listener) (contracts.Subscription, error))
	emit := capabilities["emit"].(func(string, ...any) error)
	if _, err := on("host.ping", func(args ...any) error {
		fmt.Println("pong")
		return nil
	}); err != nil {
		return err
	}
	if err := emit("host.ping"); err != nil {
		return err
	}

	families, err := d.registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		fmt.Printf("metric %s: %d series\n", family.GetName(), len(family.GetMetric()))
	}
	return nil
}

func (d *demoModule) Stop(ctx contracts.AppContext) error { return nil }

func main() {
	registry := prometheus.NewRegistry()
	counter, err := metrics.NewCounter(registry)
	if err != nil {
		log.Fatal(err)
	}

	application := app.New(
		app.AppInfo{AppName: "eventful-demo", Version: "dev", Environment: "local"},
		app.NewContainer(),
		app.NewRegistry(),
	)

	modules := []contracts.AppModule{
		config.NewModule("EVENTFUL_"),
		logger.NewModule(),
		emitter.NewModule(emitter.WithCounter(counter)),
		&demoModule{registry: registry},
	}
	for _, m := range modules {
		if err := application.Register(m); err != nil {
			log.Fatal(err)
		}
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
