// Package infra contém implementações concretas para os contratos do pacote
// domain.
//
// Exemplos:
//   - FileIdentitySource: lê o arquivo de user_ids a cada requisição
//   - HTTPUpstream: cliente da API de soluções
//   - ChromaRenderer: destaque de sintaxe usando github.com/alecthomas/chroma/v2
//   - MemoryStatsStore / RedisStatsStore: contadores de tentativas e rejeições
package infra
