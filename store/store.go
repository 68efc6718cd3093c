// Package store 提供领域接口的基础设施实现：
//
//   - core.Store：MemoryStore / RedisStore / BreakerStore（推荐结果缓存）
//   - core.DataStore：MemoryDataStore / SQLiteDataStore（商品与行为数据）
//
// 接口定义在 core 包：
//
//	var kv core.Store = store.NewMemoryStore()
//	var ds core.DataStore = store.NewMemoryDataStore(products, interactions)
package store
