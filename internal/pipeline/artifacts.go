package pipeline

// Artifact names are fixed by the downstream training manifest; renaming any
// of them breaks consumers.
const (
	ArtifactCapAnnots    = "SRL_Anet_cap_annots.csv"
	ArtifactLemmaDict    = "verb_lemma_dict.json"
	ArtifactVerbEnt      = "verb_ent_file.csv"
	ArtifactVerbEntTrain = "verb_ent_file_train.csv"
	ArtifactVerbEntVal   = "verb_ent_file_val.csv"
	ArtifactTrainDict    = "train_srl_args_dict_obj_to_ind.json"
	ArtifactValDict      = "val_srl_args_dict_obj_to_ind.json"
	ArtifactTrainAnnots  = "train_srl_annots_with_ds4_inds.csv"
	ArtifactValAnnots    = "val_srl_annots_with_ds4_inds.csv"
	ArtifactArgVocab     = "arg_vocab.pkl"
)
