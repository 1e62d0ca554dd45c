// Package discovery registers HTTP services with a Consul agent.
package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/consul/api"
)

// Registration describes one service instance and its HTTP health check.
type Registration struct {
	ID            string
	Name          string
	Host          string
	Port          int
	HealthPath    string
	CheckInterval time.Duration
}

// ConsulRegistry registers and deregisters service instances with a Consul agent.
type ConsulRegistry struct {
	agent *api.Agent
}

// NewConsulRegistry creates a registry talking to the agent at address.
func NewConsulRegistry(address string) (*ConsulRegistry, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &ConsulRegistry{agent: client.Agent()}, nil
}

// Register adds the instance to the agent's catalog.
func (r *ConsulRegistry) Register(reg Registration) error {
	return r.agent.ServiceRegister(reg.agentRegistration())
}

// InstanceID returns ID, or a name-host-port id when ID is empty.
func (reg Registration) InstanceID() string {
	if reg.ID != "" {
		return reg.ID
	}
	return fmt.Sprintf("%s-%s-%d", reg.Name, reg.Host, reg.Port)
}

// Deregister removes the instance with the given id.
func (r *ConsulRegistry) Deregister(id string) error {
	return r.agent.ServiceDeregister(id)
}

func (reg Registration) agentRegistration() *api.AgentServiceRegistration {
	interval := reg.CheckInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &api.AgentServiceRegistration{
		ID:      reg.InstanceID(),
		Name:    reg.Name,
		Address: reg.Host,
		Port:    reg.Port,
		Check: &api.AgentServiceCheck{
			HTTP:                           "http://" + net.JoinHostPort(reg.Host, strconv.Itoa(reg.Port)) + reg.HealthPath,
			Interval:                       interval.String(),
			Timeout:                        (interval / 2).String(),
			DeregisterCriticalServiceAfter: (6 * interval).String(),
		},
	}
}
