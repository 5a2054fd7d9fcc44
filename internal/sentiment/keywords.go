package sentiment

// PositiveKeywords is the built-in positive financial vocabulary (Portuguese)
var PositiveKeywords = []string{
	// market and results
	"alta", "subida", "crescimento", "lucro", "ganho", "positivo", "melhora",
	"recuperação", "forte", "bom", "excelente", "ótimo", "favorável", "otimista",
	"avanço", "progresso", "sucesso", "benefício", "vantagem", "superior",
	"elevado", "ascendente", "próspero", "rentável", "lucrativo", "promissor",
	"expansão", "desenvolvimento", "inovação", "tecnologia", "investimento",
	"parceria", "acordo", "negociação", "cooperação", "integração",
	"sustentável", "responsável", "eficiente", "produtivo", "competitivo",
	"estratégico", "planejamento", "visão", "futuro", "oportunidade",
	"mercado", "demanda", "oferta", "consumo", "vendas", "receita",
	"dividendo", "retorno", "performance", "resultado", "balanço",
	// oil and gas operations
	"petróleo", "óleo", "gás", "refinaria", "exploração", "produção",
	"reservas", "pré-sal", "bacia", "poço", "plataforma", "navio",
	"exportação", "importação", "comercialização", "distribuição",
}

// NegativeKeywords is the built-in negative financial vocabulary (Portuguese)
var NegativeKeywords = []string{
	// market and results
	"queda", "perda", "negativo", "piora", "crise", "problema",
	"fraco", "ruim", "péssimo", "desfavorável", "pessimista", "risco",
	"declínio", "recessão", "falência", "prejuízo", "déficit",
	"fracasso", "insucesso", "desvantagem", "inferior", "baixo", "mínimo",
	"redução", "diminuição", "decréscimo", "contração",
	"instabilidade", "volatilidade", "incerteza", "dúvida", "preocupação",
	"ameaça", "perigo", "vulnerabilidade", "fragilidade",
	"dependência", "limitação", "obstáculo", "barreira", "impedimento",
	"conflito", "disputa", "guerra", "sanção", "tarifa", "taxação",
	"inflação", "desemprego", "falta", "escassez", "carência",
	"dívida", "endividamento", "calote", "inadimplência",
	// oil and gas incidents
	"vazamento", "poluição", "acidente", "greve", "paralisação",
	"investigação", "multa", "corrupção", "escândalo",
	"corte", "demissão",
}
