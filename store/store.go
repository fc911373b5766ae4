// Package store 提供引擎依赖的存储实现：
//   - MemoryStore：内存实现，带事件/画像种子方法，用于测试/开发/原型
//   - RedisStore：Redis 实现的 KeyValueStore，生产环境承载热榜与缓存
//   - RedisProfileStore：基于 KeyValueStore 的画像快照存储（JSON 序列化）
//
// 生产部署中收听事件通常由数仓/行为日志系统提供，
// 引擎只依赖 core.EventStore 接口，不绑定具体实现。
package store
