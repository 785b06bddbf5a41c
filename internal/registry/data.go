package registry

// defaultEntries is the compiled-in allow-list. Administrative bulk load can
// replace it through the store, but most deployments run on these defaults.
// Grouped by category; order inside a group does not matter (tier building
// sorts deterministically).
var defaultEntries = []Entry{
	// National government (Spain).
	{Domain: "boe.es", Category: CategoryGovernment},
	{Domain: "lamoncloa.gob.es", Category: CategoryGovernment},
	{Domain: "mjusticia.gob.es", Category: CategoryGovernment},
	{Domain: "hacienda.gob.es", Category: CategoryGovernment},
	{Domain: "exteriores.gob.es", Category: CategoryGovernment},
	{Domain: "interior.gob.es", Category: CategoryGovernment},
	{Domain: "inclusion.gob.es", Category: CategoryGovernment},
	{Domain: "mitma.gob.es", Category: CategoryGovernment},
	{Domain: "sanidad.gob.es", Category: CategoryGovernment},
	{Domain: "educacionfpydeportes.gob.es", Category: CategoryGovernment},
	{Domain: "mivau.gob.es", Category: CategoryGovernment},
	{Domain: "industria.gob.es", Category: CategoryGovernment},
	{Domain: "seg-social.es", Category: CategoryGovernment},
	{Domain: "sepe.es", Category: CategoryGovernment},
	{Domain: "dgt.es", Category: CategoryGovernment},
	{Domain: "policia.es", Category: CategoryGovernment},
	{Domain: "guardiacivil.es", Category: CategoryGovernment},
	{Domain: "sede.administracion.gob.es", Category: CategoryGovernment},
	{Domain: "extranjeria.mitramiss.gob.es", Category: CategoryGovernment},
	{Domain: "catastro.hacienda.gob.es", Category: CategoryGovernment},

	// Regional government (Andalusia).
	{Domain: "juntadeandalucia.es", Category: CategoryRegionalGovernment},
	{Domain: "andaluciajunta.es", Category: CategoryRegionalGovernment},
	{Domain: "parlamentodeandalucia.es", Category: CategoryRegionalGovernment},
	{Domain: "agenciatributariadeandalucia.es", Category: CategoryRegionalGovernment},
	{Domain: "epsa.juntadeandalucia.es", Category: CategoryRegionalGovernment},
	{Domain: "sspa.juntadeandalucia.es", Category: CategoryRegionalGovernment},
	{Domain: "malaga.es", Category: CategoryRegionalGovernment},
	{Domain: "diputaciondemalaga.es", Category: CategoryRegionalGovernment},
	{Domain: "defensordelpuebloandaluz.es", Category: CategoryRegionalGovernment},
	{Domain: "ieca.junta-andalucia.es", Category: CategoryRegionalGovernment},

	// Municipal (Costa del Sol town halls).
	{Domain: "marbella.es", Category: CategoryMunicipal},
	{Domain: "fuengirola.es", Category: CategoryMunicipal},
	{Domain: "mijas.es", Category: CategoryMunicipal},
	{Domain: "estepona.es", Category: CategoryMunicipal},
	{Domain: "benalmadena.es", Category: CategoryMunicipal},
	{Domain: "torremolinos.es", Category: CategoryMunicipal},
	{Domain: "malaga.eu", Category: CategoryMunicipal},
	{Domain: "velezmalaga.es", Category: CategoryMunicipal},
	{Domain: "manilva.es", Category: CategoryMunicipal},
	{Domain: "casares.es", Category: CategoryMunicipal},
	{Domain: "rincondelavictoria.es", Category: CategoryMunicipal},
	{Domain: "nerja.es", Category: CategoryMunicipal},
	{Domain: "torrox.es", Category: CategoryMunicipal},
	{Domain: "alhaurindelatorre.es", Category: CategoryMunicipal},
	{Domain: "benahavis.es", Category: CategoryMunicipal},
	{Domain: "ojen.es", Category: CategoryMunicipal},
	{Domain: "istan.es", Category: CategoryMunicipal},
	{Domain: "coin.es", Category: CategoryMunicipal},

	// EU institutions.
	{Domain: "europa.eu", Category: CategoryEUInstitutions},
	{Domain: "ec.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "europarl.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "consilium.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "eur-lex.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "curia.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "ecb.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "eba.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "eiopa.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "edpb.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "frontex.europa.eu", Category: CategoryEUInstitutions},
	{Domain: "eib.org", Category: CategoryEUInstitutions},

	// International organisations.
	{Domain: "oecd.org", Category: CategoryInternationalOrgs},
	{Domain: "imf.org", Category: CategoryInternationalOrgs},
	{Domain: "worldbank.org", Category: CategoryInternationalOrgs},
	{Domain: "un.org", Category: CategoryInternationalOrgs},
	{Domain: "who.int", Category: CategoryInternationalOrgs},
	{Domain: "unwto.org", Category: CategoryInternationalOrgs},
	{Domain: "bis.org", Category: CategoryInternationalOrgs},
	{Domain: "wto.org", Category: CategoryInternationalOrgs},
	{Domain: "weforum.org", Category: CategoryInternationalOrgs},
	{Domain: "transparency.org", Category: CategoryInternationalOrgs},
	{Domain: "numbeo.com", Category: CategoryInternationalOrgs},
	{Domain: "schengenvisainfo.com", Category: CategoryInternationalOrgs},

	// Legal & judiciary.
	{Domain: "poderjudicial.es", Category: CategoryLegal},
	{Domain: "abogacia.es", Category: CategoryLegal},
	{Domain: "notariado.org", Category: CategoryLegal},
	{Domain: "registradores.org", Category: CategoryLegal},
	{Domain: "icamalaga.es", Category: CategoryLegal},
	{Domain: "tribunalconstitucional.es", Category: CategoryLegal},
	{Domain: "fiscal.es", Category: CategoryLegal},
	{Domain: "cgpe.es", Category: CategoryLegal},
	{Domain: "gestores.net", Category: CategoryLegal},
	{Domain: "noticias.juridicas.com", Category: CategoryLegal},
	{Domain: "iberley.es", Category: CategoryLegal},
	{Domain: "vlex.es", Category: CategoryLegal},

	// Finance & banking supervision.
	{Domain: "bde.es", Category: CategoryFinance},
	{Domain: "cnmv.es", Category: CategoryFinance},
	{Domain: "tesoro.es", Category: CategoryFinance},
	{Domain: "funcas.es", Category: CategoryFinance},
	{Domain: "bbvaresearch.com", Category: CategoryFinance},
	{Domain: "caixabankresearch.com", Category: CategoryFinance},
	{Domain: "ahe.es", Category: CategoryFinance},
	{Domain: "inverco.es", Category: CategoryFinance},
	{Domain: "sepblac.es", Category: CategoryFinance},
	{Domain: "frob.es", Category: CategoryFinance},

	// Tax authorities.
	{Domain: "agenciatributaria.es", Category: CategoryTax},
	{Domain: "agenciatributaria.gob.es", Category: CategoryTax},
	{Domain: "gov.uk", Category: CategoryTax},
	{Domain: "irs.gov", Category: CategoryTax},
	{Domain: "belastingdienst.nl", Category: CategoryTax},
	{Domain: "impots.gouv.fr", Category: CategoryTax},

	// Statistics.
	{Domain: "ine.es", Category: CategoryStatistics},
	{Domain: "ec.europa.eu/eurostat", Category: CategoryStatistics},
	{Domain: "epdata.es", Category: CategoryStatistics},
	{Domain: "statista.com", Category: CategoryStatistics},
	{Domain: "ourworldindata.org", Category: CategoryStatistics},
	{Domain: "datosmacro.expansion.com", Category: CategoryStatistics},
	{Domain: "cis.es", Category: CategoryStatistics},
	{Domain: "sielocal.com", Category: CategoryStatistics},

	// Property market data (valuation and registry sources, not portals).
	{Domain: "tinsa.es", Category: CategoryPropertyData},
	{Domain: "st-tasacion.es", Category: CategoryPropertyData},
	{Domain: "gesvalt.es", Category: CategoryPropertyData},
	{Domain: "uve-valoraciones.com", Category: CategoryPropertyData},
	{Domain: "spainsif.es", Category: CategoryPropertyData},
	{Domain: "observatoriodelavivienda.es", Category: CategoryPropertyData},
	{Domain: "notariado.org/estadisticas", Category: CategoryPropertyData},
	{Domain: "registradores.org/estadisticas", Category: CategoryPropertyData},
	{Domain: "catastro.minhap.es", Category: CategoryPropertyData},
	{Domain: "sociedadtasacion.es", Category: CategoryPropertyData},
	{Domain: "euroval.com", Category: CategoryPropertyData},
	{Domain: "cohispania.com", Category: CategoryPropertyData},

	// Professional associations.
	{Domain: "coamalaga.es", Category: CategoryProfessional},
	{Domain: "cgate.es", Category: CategoryProfessional},
	{Domain: "consejo-arquitectos.com", Category: CategoryProfessional},
	{Domain: "apcemalaga.es", Category: CategoryProfessional},
	{Domain: "economistas.es", Category: CategoryProfessional},
	{Domain: "coapimalaga.es", Category: CategoryProfessional},
	{Domain: "camaramalaga.com", Category: CategoryProfessional},
	{Domain: "cea.es", Category: CategoryProfessional},
	{Domain: "cem-malaga.es", Category: CategoryProfessional},
	{Domain: "rics.org", Category: CategoryProfessional},
	{Domain: "fiabci.org", Category: CategoryProfessional},
	{Domain: "aipp.org.uk", Category: CategoryProfessional},

	// Spanish news media.
	{Domain: "elpais.com", Category: CategoryNewsMedia},
	{Domain: "elmundo.es", Category: CategoryNewsMedia},
	{Domain: "abc.es", Category: CategoryNewsMedia},
	{Domain: "lavanguardia.com", Category: CategoryNewsMedia},
	{Domain: "elconfidencial.com", Category: CategoryNewsMedia},
	{Domain: "20minutos.es", Category: CategoryNewsMedia},
	{Domain: "europapress.es", Category: CategoryNewsMedia},
	{Domain: "efe.com", Category: CategoryNewsMedia},
	{Domain: "rtve.es", Category: CategoryNewsMedia},
	{Domain: "diariosur.es", Category: CategoryNewsMedia},
	{Domain: "surinenglish.com", Category: CategoryNewsMedia},
	{Domain: "malagahoy.es", Category: CategoryNewsMedia},
	{Domain: "laopiniondemalaga.es", Category: CategoryNewsMedia},
	{Domain: "theolivepress.es", Category: CategoryNewsMedia},
	{Domain: "euroweeklynews.com", Category: CategoryNewsMedia},
	{Domain: "inspain.news", Category: CategoryNewsMedia},
	{Domain: "eldiario.es", Category: CategoryNewsMedia},
	{Domain: "publico.es", Category: CategoryNewsMedia},

	// International news.
	{Domain: "reuters.com", Category: CategoryInternationalNews},
	{Domain: "bbc.com", Category: CategoryInternationalNews},
	{Domain: "bbc.co.uk", Category: CategoryInternationalNews},
	{Domain: "theguardian.com", Category: CategoryInternationalNews},
	{Domain: "ft.com", Category: CategoryInternationalNews},
	{Domain: "bloomberg.com", Category: CategoryInternationalNews},
	{Domain: "nytimes.com", Category: CategoryInternationalNews},
	{Domain: "economist.com", Category: CategoryInternationalNews},
	{Domain: "apnews.com", Category: CategoryInternationalNews},
	{Domain: "france24.com", Category: CategoryInternationalNews},
	{Domain: "dw.com", Category: CategoryInternationalNews},
	{Domain: "politico.eu", Category: CategoryInternationalNews},
	{Domain: "telegraph.co.uk", Category: CategoryInternationalNews},
	{Domain: "independent.co.uk", Category: CategoryInternationalNews},

	// Business & economics media.
	{Domain: "expansion.com", Category: CategoryBusinessMedia},
	{Domain: "cincodias.elpais.com", Category: CategoryBusinessMedia},
	{Domain: "eleconomista.es", Category: CategoryBusinessMedia},
	{Domain: "elespanol.com/invertia", Category: CategoryBusinessMedia},
	{Domain: "forbes.es", Category: CategoryBusinessMedia},
	{Domain: "businessinsider.es", Category: CategoryBusinessMedia},
	{Domain: "emprendedores.es", Category: CategoryBusinessMedia},
	{Domain: "modaes.com", Category: CategoryBusinessMedia},
	{Domain: "ejeprime.com", Category: CategoryBusinessMedia},
	{Domain: "brainsre.news", Category: CategoryBusinessMedia},

	// Education.
	{Domain: "uma.es", Category: CategoryEducation},
	{Domain: "us.es", Category: CategoryEducation},
	{Domain: "ugr.es", Category: CategoryEducation},
	{Domain: "uned.es", Category: CategoryEducation},
	{Domain: "uoc.edu", Category: CategoryEducation},
	{Domain: "ie.edu", Category: CategoryEducation},
	{Domain: "esade.edu", Category: CategoryEducation},
	{Domain: "iese.edu", Category: CategoryEducation},
	{Domain: "cervantes.es", Category: CategoryEducation},
	{Domain: "britishcouncil.es", Category: CategoryEducation},
	{Domain: "educacion.gob.es", Category: CategoryEducation},
	{Domain: "nabss.org", Category: CategoryEducation},
	{Domain: "cobis.org.uk", Category: CategoryEducation},
	{Domain: "ibo.org", Category: CategoryEducation},

	// Healthcare.
	{Domain: "nhs.uk", Category: CategoryHealthcare},
	{Domain: "mscbs.gob.es", Category: CategoryHealthcare},
	{Domain: "cgcom.es", Category: CategoryHealthcare},
	{Domain: "commalaga.com", Category: CategoryHealthcare},
	{Domain: "aemps.gob.es", Category: CategoryHealthcare},
	{Domain: "isciii.es", Category: CategoryHealthcare},
	{Domain: "hospitalcostadelsol.es", Category: CategoryHealthcare},
	{Domain: "juntadeandalucia.es/servicioandaluzdesalud", Category: CategoryHealthcare},
	{Domain: "ecdc.europa.eu", Category: CategoryHealthcare},
	{Domain: "redaccionmedica.com", Category: CategoryHealthcare},

	// Expat resources.
	{Domain: "citizensadvice.org.uk", Category: CategoryExpatResources},
	{Domain: "expatica.com", Category: CategoryExpatResources},
	{Domain: "internations.org", Category: CategoryExpatResources},
	{Domain: "spainexpat.com", Category: CategoryExpatResources},
	{Domain: "costadelsolnews.es", Category: CategoryExpatResources},
	{Domain: "angloinfo.com", Category: CategoryExpatResources},
	{Domain: "expatforum.com", Category: CategoryExpatResources},
	{Domain: "britishembassy.gov.uk", Category: CategoryExpatResources},
	{Domain: "ukinspain.fco.gov.uk", Category: CategoryExpatResources},
	{Domain: "norway.no", Category: CategoryExpatResources},
	{Domain: "diplomatie.belgium.be", Category: CategoryExpatResources},
	{Domain: "government.nl", Category: CategoryExpatResources},

	// Transport & infrastructure.
	{Domain: "aena.es", Category: CategoryTransport},
	{Domain: "renfe.com", Category: CategoryTransport},
	{Domain: "adif.es", Category: CategoryTransport},
	{Domain: "metromalaga.es", Category: CategoryTransport},
	{Domain: "emtmalaga.es", Category: CategoryTransport},
	{Domain: "avanzabus.com", Category: CategoryTransport},
	{Domain: "puertos.es", Category: CategoryTransport},
	{Domain: "puertomalaga.com", Category: CategoryTransport},
	{Domain: "mascercanias.com", Category: CategoryTransport},
	{Domain: "autopistas.com", Category: CategoryTransport},

	// Environment & climate.
	{Domain: "aemet.es", Category: CategoryEnvironment},
	{Domain: "miteco.gob.es", Category: CategoryEnvironment},
	{Domain: "chguadalquivir.es", Category: CategoryEnvironment},
	{Domain: "copernicus.eu", Category: CategoryEnvironment},
	{Domain: "eea.europa.eu", Category: CategoryEnvironment},
	{Domain: "ecologistasenaccion.org", Category: CategoryEnvironment},
	{Domain: "seo.org", Category: CategoryEnvironment},
	{Domain: "wwf.es", Category: CategoryEnvironment},
	{Domain: "lifewatch.eu", Category: CategoryEnvironment},
	{Domain: "ipcc.ch", Category: CategoryEnvironment},

	// Tourism boards.
	{Domain: "spain.info", Category: CategoryTourism},
	{Domain: "andalucia.org", Category: CategoryTourism},
	{Domain: "visitcostadelsol.com", Category: CategoryTourism},
	{Domain: "malagaturismo.com", Category: CategoryTourism},
	{Domain: "turismo.marbella.es", Category: CategoryTourism},
	{Domain: "visitafuengirola.com", Category: CategoryTourism},
	{Domain: "turismomijas.com", Category: CategoryTourism},
	{Domain: "estepona.es/turismo", Category: CategoryTourism},
	{Domain: "visitbenalmadena.com", Category: CategoryTourism},
	{Domain: "nerjaturismo.com", Category: CategoryTourism},
	{Domain: "caminitodelrey.info", Category: CategoryTourism},
	{Domain: "alhambra-patronato.es", Category: CategoryTourism},
	{Domain: "museopicassomalaga.org", Category: CategoryTourism},
	{Domain: "carmenthyssenmalaga.org", Category: CategoryTourism},
	{Domain: "centrepompidou-malaga.eu", Category: CategoryTourism},
	{Domain: "turismoronda.es", Category: CategoryTourism},

	// Lifestyle & leisure.
	{Domain: "rfegolf.es", Category: CategoryLifestyle},
	{Domain: "andaluciagolf.com", Category: CategoryLifestyle},
	{Domain: "realclubvalderrama.com", Category: CategoryLifestyle},
	{Domain: "michelin.com", Category: CategoryLifestyle},
	{Domain: "guiarepsol.com", Category: CategoryLifestyle},
	{Domain: "rfen.es", Category: CategoryLifestyle},
	{Domain: "marbellaexclusive.com", Category: CategoryLifestyle},
	{Domain: "essentialmagazine.com", Category: CategoryLifestyle},
	{Domain: "societymarbella.com", Category: CategoryLifestyle},
	{Domain: "homeandlifestyle.es", Category: CategoryLifestyle},
}

// defaultCompetitors is the blacklist of real-estate portals and competing
// agencies that must never be cited. Matching is substring-tolerant in both
// directions, so bare brand hosts are enough to catch subdomains.
var defaultCompetitors = []string{
	"idealista.com",
	"fotocasa.es",
	"kyero.com",
	"thinkspain.com",
	"spainhouses.net",
	"pisos.com",
	"habitaclia.com",
	"rightmove.co.uk",
	"zoopla.co.uk",
	"aplaceinthesun.com",
	"propertyguides.com",
	"spanishpropertyinsight.com",
	"engelvoelkers.com",
	"lucasfox.com",
	"gilmar.es",
	"savills.com",
	"knightfrank.com",
	"sothebysrealty.com",
	"christiesrealestate.com",
	"jamesedition.com",
	"luxuryestate.com",
	"drumelia.com",
	"panorama.es",
	"marbella-hills-homes.com",
	"nvoga.com",
	"solvilla.es",
	"bromleyestates.com",
	"taylorwimpeyspain.com",
}
