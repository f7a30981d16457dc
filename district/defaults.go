// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

// DefaultDistricts are the 96 official districts of the city of São Paulo.
var DefaultDistricts = []string{
	"Água Rasa", "Alto de Pinheiros", "Anhanguera", "Aricanduva", "Artur Alvim", "Barra Funda", "Bela Vista", "Belém",
	"Bom Retiro", "Brás", "Brasilândia", "Butantã", "Cachoeirinha", "Cambuci", "Campo Belo", "Campo Grande", "Campo Limpo",
	"Cangaíba", "Capão Redondo", "Carrão", "Casa Verde", "Cidade Ademar", "Cidade Dutra", "Cidade Líder", "Cidade Tiradentes",
	"Consolação", "Cursino", "Ermelino Matarazzo", "Freguesia do Ó", "Grajaú", "Guaianases", "Iguatemi", "Ipiranga", "Itaim Bibi",
	"Itaim Paulista", "Itaquera", "Jabaquara", "Jaçanã", "Jaguara", "Jaguaré", "Jaraguá", "Jardim Ângela", "Jardim Helena",
	"Jardim Paulista", "Jardim São Luís", "José Bonifácio", "Lajeado", "Lapa", "Liberdade", "Limão", "Mandaqui", "Marsilac",
	"Moema", "Mooca", "Morumbi", "Parelheiros", "Pari", "Parque do Carmo", "Pedreira", "Penha", "Perdizes", "Perus", "Pinheiros",
	"Pirituba", "Ponte Rasa", "Raposo Tavares", "República", "Rio Pequeno", "Sacomã", "Santa Cecília", "Santana", "Santo Amaro",
	"São Domingos", "São Lucas", "São Mateus", "São Miguel", "São Rafael", "Sapopemba", "Saúde", "Sé", "Socorro", "Tatuapé",
	"Tremembé", "Tucuruvi", "Vila Andrade", "Vila Curuçá", "Vila Formosa", "Vila Guilherme", "Vila Jacuí", "Vila Leopoldina",
	"Vila Maria", "Vila Mariana", "Vila Matilde", "Vila Medeiros", "Vila Prudente", "Vila Sônia",
}

// DefaultAliases maps well known neighborhoods (bairros) to the district
// containing them. Order matters: the first alias found in an address wins.
var DefaultAliases = []Alias{
	// Centro/Sul
	{"Bosque da Saúde", "Saúde"},
	{"Vila Clementino", "Vila Mariana"},
	{"Mirandópolis", "Saúde"},
	{"Paraíso", "Vila Mariana"},
	{"Cerqueira César", "Jardim Paulista"},
	{"Planalto Paulista", "Moema"},
	{"Aclimação", "Liberdade"},
	// Leste
	{"Móoca", "Mooca"},
	{"Tatuapé", "Tatuapé"},
	{"Penha de França", "Penha"},
	{"Vila Reg. Feijó", "Vila Formosa"},
	{"Vila Regente Feijó", "Vila Formosa"},
	{"Jardim Avelino", "Vila Prudente"},
	{"Quarta Parada", "Mooca"},
	{"Vila Carrão", "Carrão"},
	{"Vila Formosa", "Vila Formosa"},
	{"Sapopemba", "Sapopemba"},
	// Oeste
	{"Jardim Paulista", "Jardim Paulista"},
	{"Pinheiros", "Pinheiros"},
	{"Itaim Bibi", "Itaim Bibi"},
	{"Vila Nova Conceição", "Itaim Bibi"},
	// Norte
	{"Tucuruvi", "Tucuruvi"},
	{"Santana", "Santana"},
	// Eixos/Aeroportos
	{"Moreira Guimarães", "Moema"},
}

// DefaultCity is the city proper with the Greater São Paulo municipalities
// whose addresses must not be taken as part of it.
var DefaultCity = City{
	Name:        "São Paulo",
	State:       "SP",
	StateName:   "São Paulo",
	CountryCode: "br",
	Excluded: []string{
		"Santo André", "São Bernardo do Campo", "São Caetano do Sul", "Osasco", "Guarulhos", "Diadema",
		"Mauá", "Barueri", "Carapicuíba", "Taboão da Serra", "Cotia", "Itapecerica da Serra",
		"Santana de Parnaíba",
	},
}
