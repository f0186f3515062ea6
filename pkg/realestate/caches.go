package realestate

import (
	"github.com/immobase/immosync-go/pkg/immosync"
)

// Cache instantiations for each entity type. One cache instance is created
// per type at application startup; all four share the same persistence
// backend but live under separate store keys.
type (
	PropertyCache = immosync.Cache[Property, PropertyFilter]
	PersonCache   = immosync.Cache[Person, PersonFilter]
	RealtorCache  = immosync.Cache[Realtor, RealtorFilter]
	ContractCache = immosync.Cache[Contract, ContractFilter]

	PropertyService = immosync.Service[Property, PropertyFilter]
	PersonService   = immosync.Service[Person, PersonFilter]
	RealtorService  = immosync.Service[Realtor, RealtorFilter]
	ContractService = immosync.Service[Contract, ContractFilter]
)

// Store keys the per-type caches persist under.
const (
	PropertyStoreKey = "property-store"
	PersonStoreKey   = "person-store"
	RealtorStoreKey  = "realtor-store"
	ContractStoreKey = "contract-store"
)

// NewPropertyCache creates a property cache under the property store key.
func NewPropertyCache(config *immosync.Config, svc PropertyService) (*PropertyCache, error) {
	return immosync.New[Property, PropertyFilter](keyed(config, PropertyStoreKey), svc)
}

// NewPersonCache creates a person cache under the person store key.
func NewPersonCache(config *immosync.Config, svc PersonService) (*PersonCache, error) {
	return immosync.New[Person, PersonFilter](keyed(config, PersonStoreKey), svc)
}

// NewRealtorCache creates a realtor cache under the realtor store key.
func NewRealtorCache(config *immosync.Config, svc RealtorService) (*RealtorCache, error) {
	return immosync.New[Realtor, RealtorFilter](keyed(config, RealtorStoreKey), svc)
}

// NewContractCache creates a contract cache under the contract store key.
func NewContractCache(config *immosync.Config, svc ContractService) (*ContractCache, error) {
	return immosync.New[Contract, ContractFilter](keyed(config, ContractStoreKey), svc)
}

// keyed applies the per-type store key unless the caller set one explicitly.
func keyed(config *immosync.Config, key string) *immosync.Config {
	if config == nil {
		config = immosync.NewDefaultConfig()
	}
	if config.PersistKey == "" || config.PersistKey == "entity-store" {
		config.PersistKey = key
	}
	return config
}
