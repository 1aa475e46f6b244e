// Package store 提供 core.Store / core.KeyValueStore 的具体实现，
// 以及把通用 KV 适配成快照数据源（InteractionStore / CatalogStore）的适配器。
//
// 注意：接口定义在 core 包，此包只包含实现。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	src := store.NewInteractionSource(s, "bookrec")
package store
