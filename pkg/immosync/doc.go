// Package immosync implements a client-side entity cache with incremental
// search-result synchronization against a remote entity service.
//
// # Overview
//
// One Cache instance serves one entity type. It owns an id-to-record map
// persisted to a local store between sessions, and a set of search result
// sets keyed by a canonical search index derived from each (filter, sort)
// pair. Both are kept consistent with the backend through real-time push
// events: new and updated records are upserted and slotted into every
// matching result set, deleted records are removed everywhere.
//
// # Startup
//
// On construction the cache registers its push handlers, then hydrates
// asynchronously: the persisted blob is read, corrupt blobs are discarded,
// and the surviving ids are confirmed with the backend's invalidation check.
// If that check fails, the cache starts empty. All public operations wait
// for hydration, so callers never observe a partially loaded cache.
//
// # Basic usage
//
//	cache, err := immosync.New[realestate.Property, realestate.PropertyFilter](
//	    immosync.NewFileConfig(dir).WithPersistKey("property-store"),
//	    propertyService,
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	index, err := cache.Search(ctx, filter, sortCfg, 25, nil)
//	if err != nil {
//	    log.Printf("search failed: %v", err)
//	}
//	ids, _ := cache.ResultSet(index)
//	for _, id := range ids {
//	    if rec, ok := cache.ByID(id); ok {
//	        render(rec)
//	    }
//	}
//
// Writes never mutate the cache directly: Create, Update, and Delete
// delegate to the backend, and the resulting push event performs the local
// mutation. Consumers re-render through OnChange notifications.
package immosync
